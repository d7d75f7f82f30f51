package schema

import (
	"sync"

	"github.com/BaSui01/uigen/types"
)

// Schema is the structural contract the orchestrator validates raw backend
// output against. The built-in envelope schema returns *types.Envelope from
// Validate; a caller-supplied schema may return any shape.
type Schema interface {
	// Name identifies the schema in backend requests and logs.
	Name() string
	// Descriptor returns a lossless JSON Schema description of the contract,
	// suitable for constrained decoding by the generation backend.
	Descriptor() *JSONSchema
	// Validate checks raw JSON against the contract and returns the decoded
	// value. The error is a *ValidationErrors when the shape is wrong.
	Validate(data []byte) (any, error)
}

// envelopeSchema is the built-in Schema for the node forest envelope.
type envelopeSchema struct{}

var (
	builtinOnce       sync.Once
	builtinDescriptor *JSONSchema
)

// Builtin returns the built-in envelope schema.
func Builtin() Schema {
	return envelopeSchema{}
}

func (envelopeSchema) Name() string { return "ui_envelope" }

func (envelopeSchema) Descriptor() *JSONSchema {
	builtinOnce.Do(func() {
		builtinDescriptor = buildEnvelopeDescriptor()
	})
	return builtinDescriptor
}

func (envelopeSchema) Validate(data []byte) (any, error) {
	return DecodeEnvelope(data)
}

// kindValues converts the node kind set into enum values.
func kindValues() []any {
	kinds := types.NodeKinds()
	out := make([]any, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func actionTypeValues() []any {
	ts := types.ActionTypes()
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

// nodeDef builds the wire-shape schema of one node kind: an object with a
// const kind discriminant, an optional id, and the kind's props schema.
func nodeDef(kind types.NodeKind, props *JSONSchema) *JSONSchema {
	return NewObjectSchema().
		AddProperty("kind", NewConstSchema(string(kind))).
		AddProperty("id", NewStringSchema()).
		AddProperty("props", props).
		AddRequired("kind", "props").
		WithAdditionalProperties(false)
}

// buildEnvelopeDescriptor assembles the full recursive envelope schema.
// Composite kinds reference the node union through $defs so depth is
// unbounded, and form fields reference the input definition directly so the
// field restriction is visible to the backend, not just to the validator.
func buildEnvelopeDescriptor() *JSONSchema {
	nodeRef := NewRefSchema("node")

	textProps := NewObjectSchema().
		AddProperty("text", NewStringSchema().WithMinLength(1)).
		AddProperty("variant", NewEnumSchema(
			string(types.TextBody), string(types.TextMuted), string(types.TextCaption),
		).WithDefault(string(types.TextBody))).
		AddRequired("text")

	headingProps := NewObjectSchema().
		AddProperty("text", NewStringSchema().WithMinLength(1)).
		AddProperty("level", NewIntegerSchema().WithMinimum(1).WithMaximum(4).WithDefault(2)).
		AddRequired("text")

	buttonProps := NewObjectSchema().
		AddProperty("label", NewStringSchema().WithMinLength(1)).
		AddProperty("variant", NewEnumSchema(
			string(types.ButtonPrimary), string(types.ButtonSecondary), string(types.ButtonDanger),
		).WithDefault(string(types.ButtonPrimary))).
		AddProperty("actionId", NewStringSchema()).
		AddRequired("label")

	inputProps := NewObjectSchema().
		AddProperty("name", NewStringSchema().WithMinLength(1)).
		AddProperty("label", NewStringSchema()).
		AddProperty("placeholder", NewStringSchema()).
		AddProperty("value", NewStringSchema()).
		AddProperty("required", NewBooleanSchema()).
		AddProperty("inputType", NewEnumSchema(
			string(types.InputText), string(types.InputEmail), string(types.InputPassword),
			string(types.InputNumber), string(types.InputDate),
		).WithDefault(string(types.InputText))).
		AddRequired("name")

	formProps := NewObjectSchema().
		AddProperty("title", NewStringSchema()).
		AddProperty("submitLabel", NewStringSchema().WithMinLength(1)).
		AddProperty("actionId", NewStringSchema()).
		AddProperty("fields", NewArraySchema(NewRefSchema("inputNode"))).
		AddRequired("submitLabel", "fields")

	listProps := NewObjectSchema().
		AddProperty("items", NewArraySchema(NewStringSchema())).
		AddRequired("items")

	tableColumn := NewObjectSchema().
		AddProperty("key", NewStringSchema().WithMinLength(1)).
		AddProperty("header", NewStringSchema().WithMinLength(1)).
		AddRequired("key", "header")
	tableProps := NewObjectSchema().
		AddProperty("columns", NewArraySchema(tableColumn)).
		AddProperty("rows", NewArraySchema(NewObjectSchema().WithAdditionalProperties(true))).
		AddRequired("columns", "rows")

	codeProps := NewObjectSchema().
		AddProperty("language", NewStringSchema().WithMinLength(1)).
		AddProperty("code", NewStringSchema().WithMinLength(1)).
		AddRequired("language", "code")

	containerProps := NewObjectSchema().
		AddProperty("direction", NewEnumSchema(
			string(types.DirectionColumn), string(types.DirectionRow),
		).WithDefault(string(types.DirectionColumn))).
		AddProperty("gap", NewIntegerSchema().WithMinimum(0).WithMaximum(48).WithDefault(12)).
		AddProperty("align", alignmentEnum()).
		AddProperty("justify", alignmentEnum()).
		AddProperty("children", NewArraySchema(nodeRef))

	message := NewObjectSchema().
		AddProperty("role", NewEnumSchema(
			string(types.RoleSystem), string(types.RoleUser),
			string(types.RoleAssistant), string(types.RoleTool),
		)).
		AddProperty("content", NewStringSchema().WithMinLength(1)).
		AddRequired("role", "content")

	action := NewObjectSchema().
		AddProperty("id", NewStringSchema().WithMinLength(1)).
		AddProperty("type", &JSONSchema{Type: TypeString, Enum: actionTypeValues()}).
		AddProperty("label", NewStringSchema()).
		AddProperty("params", NewObjectSchema().WithAdditionalProperties(true)).
		AddRequired("id", "type")

	inputNode := nodeDef(types.KindInput, inputProps)

	root := NewObjectSchema().
		WithTitle("UIEnvelope").
		WithDescription("Structured UI response: a recursive node forest plus metadata.").
		AddProperty("title", NewStringSchema()).
		AddProperty("description", NewStringSchema()).
		AddProperty("messages", NewArraySchema(message)).
		AddProperty("ui", NewArraySchema(nodeRef)).
		AddProperty("actions", NewArraySchema(action)).
		AddProperty("suggestions", NewArraySchema(NewStringSchema())).
		AddProperty("followUpQuestion", NewStringSchema()).
		AddRequired("ui")

	root.Schema = "https://json-schema.org/draft/2020-12/schema"
	root.AddDef("node", NewOneOfSchema(
		nodeDef(types.KindText, textProps),
		nodeDef(types.KindHeading, headingProps),
		nodeDef(types.KindButton, buttonProps),
		nodeDef(types.KindInput, inputProps),
		nodeDef(types.KindForm, formProps),
		nodeDef(types.KindList, listProps),
		nodeDef(types.KindTable, tableProps),
		nodeDef(types.KindCode, codeProps),
		nodeDef(types.KindContainer, containerProps),
	).WithDescription("A single UI node, discriminated by kind."))
	root.AddDef("inputNode", inputNode)

	return root
}

func alignmentEnum() *JSONSchema {
	return NewEnumSchema(
		string(types.AlignStart), string(types.AlignCenter), string(types.AlignEnd),
		string(types.AlignStretch), string(types.AlignBetween),
	).WithDefault(string(types.AlignStart))
}
