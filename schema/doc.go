// Package schema defines the structural contract of generated output.
//
// It has two halves. The descriptor half is a small JSON Schema builder used
// to describe the node union losslessly to the generation backend, so the
// backend can be constrained to emit conforming JSON. The validation half
// turns raw backend output into a typed tree: Builtin() decodes, validates,
// and defaults the envelope shape in a single pass, and FromDocument wraps
// an arbitrary caller-supplied JSON Schema document.
//
// Defaulting happens here and only here. Nothing else in the repository
// decides what an omitted field means.
package schema
