// Package types provides the core data model used across the uigen library:
// the node variant tree, the response envelope, chat messages, actions, and
// the structured error type.
//
// This package has ZERO dependencies on other uigen packages to avoid
// circular imports. All other packages should import types from here.
//
// Decoding raw JSON into nodes intentionally does NOT live here: the schema
// package is the single place where omitted fields get their defaults, so
// types only knows how to marshal an already-validated tree back out.
package types
