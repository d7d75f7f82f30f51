package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/BaSui01/uigen/types"
)

// DecodeEnvelope parses raw JSON into a typed envelope, validating every
// node against the built-in contract and applying declared defaults. All
// failures are accumulated and returned as a *ValidationErrors.
func DecodeEnvelope(data []byte) (*types.Envelope, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationErrors{Errors: []FieldError{{Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}

	d := &decoder{}
	env := d.decodeEnvelope(raw)
	if len(d.errs) > 0 {
		return nil, &ValidationErrors{Errors: d.errs}
	}
	return env, nil
}

// DecodeNodes parses a raw JSON array into a validated node forest. It is
// the entry point for callers that bring their own forest (for example the
// standalone normalization endpoint).
func DecodeNodes(data []byte) ([]types.Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationErrors{Errors: []FieldError{{Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}

	d := &decoder{}
	nodes := d.decodeNodeList(raw, "")
	if len(d.errs) > 0 {
		return nil, &ValidationErrors{Errors: d.errs}
	}
	return nodes, nil
}

// DecodeNode parses and validates a single raw node.
func DecodeNode(data []byte) (types.Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.Node{}, &ValidationErrors{Errors: []FieldError{{Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}

	d := &decoder{}
	node, _ := d.decodeNode(raw, "")
	if len(d.errs) > 0 {
		return types.Node{}, &ValidationErrors{Errors: d.errs}
	}
	return node, nil
}

// decoder walks parsed JSON, collecting field errors as it goes so one pass
// reports every problem instead of the first.
type decoder struct {
	errs []FieldError
}

func (d *decoder) fail(path, format string, args ...any) {
	d.errs = append(d.errs, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

// ---------------------------------------------------------------------------
// Envelope
// ---------------------------------------------------------------------------

func (d *decoder) decodeEnvelope(v any) *types.Envelope {
	obj, ok := v.(map[string]any)
	if !ok {
		d.fail("", "expected envelope object, got %T", v)
		return nil
	}

	env := &types.Envelope{
		Title:            d.optionalString(obj, "", "title"),
		Description:      d.optionalString(obj, "", "description"),
		FollowUpQuestion: d.optionalString(obj, "", "followUpQuestion"),
		Messages:         []types.ChatMessage{},
		UI:               []types.Node{},
		Actions:          []types.Action{},
		Suggestions:      []string{},
	}

	ui, present := obj["ui"]
	if !present {
		d.fail("ui", "required field is missing")
	} else {
		env.UI = d.decodeNodeList(ui, "ui")
	}

	if raw, present := obj["messages"]; present {
		env.Messages = d.decodeMessages(raw, "messages")
	}
	if raw, present := obj["actions"]; present {
		env.Actions = d.decodeActions(raw, "actions")
	}
	if raw, present := obj["suggestions"]; present {
		env.Suggestions = d.decodeStringList(raw, "suggestions")
	}

	return env
}

func (d *decoder) decodeMessages(v any, path string) []types.ChatMessage {
	arr, ok := v.([]any)
	if !ok {
		d.fail(path, "expected array, got %T", v)
		return []types.ChatMessage{}
	}
	out := make([]types.ChatMessage, 0, len(arr))
	roles := []string{
		string(types.RoleSystem), string(types.RoleUser),
		string(types.RoleAssistant), string(types.RoleTool),
	}
	for i, item := range arr {
		p := indexPath(path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			d.fail(p, "expected message object, got %T", item)
			continue
		}
		role := d.enumString(obj, p, "role", roles, "")
		content := d.requiredString(obj, p, "content")
		out = append(out, types.ChatMessage{Role: types.Role(role), Content: content})
	}
	return out
}

func (d *decoder) decodeActions(v any, path string) []types.Action {
	arr, ok := v.([]any)
	if !ok {
		d.fail(path, "expected array, got %T", v)
		return []types.Action{}
	}
	allowed := make([]string, 0, len(types.ActionTypes()))
	for _, t := range types.ActionTypes() {
		allowed = append(allowed, string(t))
	}
	out := make([]types.Action, 0, len(arr))
	for i, item := range arr {
		p := indexPath(path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			d.fail(p, "expected action object, got %T", item)
			continue
		}
		action := types.Action{
			ID:    d.requiredString(obj, p, "id"),
			Type:  types.ActionType(d.enumString(obj, p, "type", allowed, "")),
			Label: d.optionalString(obj, p, "label"),
		}
		if raw, present := obj["params"]; present {
			params, ok := raw.(map[string]any)
			if !ok {
				d.fail(joinPath(p, "params"), "expected object, got %T", raw)
			} else {
				action.Params = params
			}
		}
		out = append(out, action)
	}
	return out
}

func (d *decoder) decodeStringList(v any, path string) []string {
	arr, ok := v.([]any)
	if !ok {
		d.fail(path, "expected array, got %T", v)
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			d.fail(indexPath(path, i), "expected string, got %T", item)
			continue
		}
		out = append(out, s)
	}
	return out
}

// ---------------------------------------------------------------------------
// Nodes
// ---------------------------------------------------------------------------

func (d *decoder) decodeNodeList(v any, path string) []types.Node {
	arr, ok := v.([]any)
	if !ok {
		d.fail(path, "expected array of nodes, got %T", v)
		return []types.Node{}
	}
	out := make([]types.Node, 0, len(arr))
	for i, item := range arr {
		node, ok := d.decodeNode(item, indexPath(path, i))
		if ok {
			out = append(out, node)
		}
	}
	return out
}

// decodeNode validates one node and returns it with defaults applied.
// The kind switch is exhaustive over the closed node set; an unrecognized
// discriminant is a validation failure, never a silent pass-through.
func (d *decoder) decodeNode(v any, path string) (types.Node, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		d.fail(path, "expected node object, got %T", v)
		return types.Node{}, false
	}

	kindRaw := d.requiredString(obj, path, "kind")
	if kindRaw == "" {
		return types.Node{}, false
	}
	id := d.optionalString(obj, path, "id")

	props := map[string]any{}
	if raw, present := obj["props"]; present {
		m, ok := raw.(map[string]any)
		if !ok {
			d.fail(joinPath(path, "props"), "expected object, got %T", raw)
			return types.Node{}, false
		}
		props = m
	}
	propsPath := joinPath(path, "props")

	before := len(d.errs)
	kind := types.NodeKind(kindRaw)
	var decoded types.Props
	switch kind {
	case types.KindText:
		decoded = d.decodeTextProps(props, propsPath)
	case types.KindHeading:
		decoded = d.decodeHeadingProps(props, propsPath)
	case types.KindButton:
		decoded = d.decodeButtonProps(props, propsPath)
	case types.KindInput:
		decoded = d.decodeInputProps(props, propsPath)
	case types.KindForm:
		decoded = d.decodeFormProps(props, propsPath)
	case types.KindList:
		decoded = d.decodeListProps(props, propsPath)
	case types.KindTable:
		decoded = d.decodeTableProps(props, propsPath)
	case types.KindCode:
		decoded = d.decodeCodeProps(props, propsPath)
	case types.KindContainer:
		decoded = d.decodeContainerProps(props, propsPath)
	default:
		d.fail(joinPath(path, "kind"), "unknown node kind %q", kindRaw)
		return types.Node{}, false
	}

	if len(d.errs) > before {
		return types.Node{}, false
	}
	return types.Node{Kind: kind, ID: id, Props: decoded}, true
}

func (d *decoder) decodeTextProps(obj map[string]any, path string) types.TextProps {
	return types.TextProps{
		Text: d.requiredString(obj, path, "text"),
		Variant: types.TextVariant(d.enumString(obj, path, "variant",
			[]string{string(types.TextBody), string(types.TextMuted), string(types.TextCaption)},
			string(types.TextBody))),
	}
}

func (d *decoder) decodeHeadingProps(obj map[string]any, path string) types.HeadingProps {
	level := d.intField(obj, path, "level", 2)
	// Out-of-range levels are rejected rather than clamped: a level the
	// model invented is a contract violation, not a rendering preference.
	if level < 1 || level > 4 {
		d.fail(joinPath(path, "level"), "level %d is outside [1,4]", level)
	}
	return types.HeadingProps{
		Text:  d.requiredString(obj, path, "text"),
		Level: level,
	}
}

func (d *decoder) decodeButtonProps(obj map[string]any, path string) types.ButtonProps {
	return types.ButtonProps{
		Label: d.requiredString(obj, path, "label"),
		Variant: types.ButtonVariant(d.enumString(obj, path, "variant",
			[]string{string(types.ButtonPrimary), string(types.ButtonSecondary), string(types.ButtonDanger)},
			string(types.ButtonPrimary))),
		ActionID: d.optionalString(obj, path, "actionId"),
	}
}

func (d *decoder) decodeInputProps(obj map[string]any, path string) types.InputProps {
	return types.InputProps{
		Name:        d.requiredString(obj, path, "name"),
		Label:       d.optionalString(obj, path, "label"),
		Placeholder: d.optionalString(obj, path, "placeholder"),
		Value:       d.optionalString(obj, path, "value"),
		Required:    d.boolField(obj, path, "required", false),
		InputType: types.InputType(d.enumString(obj, path, "inputType",
			[]string{
				string(types.InputText), string(types.InputEmail), string(types.InputPassword),
				string(types.InputNumber), string(types.InputDate),
			},
			string(types.InputText))),
	}
}

func (d *decoder) decodeFormProps(obj map[string]any, path string) types.FormProps {
	props := types.FormProps{
		Title:       d.optionalString(obj, path, "title"),
		SubmitLabel: d.requiredString(obj, path, "submitLabel"),
		ActionID:    d.optionalString(obj, path, "actionId"),
		Fields:      []types.Node{},
	}

	raw, present := obj["fields"]
	if !present {
		d.fail(joinPath(path, "fields"), "required field is missing")
		return props
	}
	arr, ok := raw.([]any)
	if !ok {
		d.fail(joinPath(path, "fields"), "expected array, got %T", raw)
		return props
	}
	for i, item := range arr {
		fieldPath := indexPath(joinPath(path, "fields"), i)
		node, ok := d.decodeNode(item, fieldPath)
		if !ok {
			continue
		}
		if node.Kind != types.KindInput {
			d.fail(fieldPath, "form fields must be input nodes, got %q", node.Kind)
			continue
		}
		props.Fields = append(props.Fields, node)
	}
	return props
}

func (d *decoder) decodeListProps(obj map[string]any, path string) types.ListProps {
	raw, present := obj["items"]
	if !present {
		d.fail(joinPath(path, "items"), "required field is missing")
		return types.ListProps{Items: []string{}}
	}
	return types.ListProps{Items: d.decodeStringList(raw, joinPath(path, "items"))}
}

func (d *decoder) decodeTableProps(obj map[string]any, path string) types.TableProps {
	props := types.TableProps{
		Columns: []types.TableColumn{},
		Rows:    []map[string]any{},
	}

	colsRaw, present := obj["columns"]
	if !present {
		d.fail(joinPath(path, "columns"), "required field is missing")
	} else if arr, ok := colsRaw.([]any); !ok {
		d.fail(joinPath(path, "columns"), "expected array, got %T", colsRaw)
	} else {
		for i, item := range arr {
			p := indexPath(joinPath(path, "columns"), i)
			col, ok := item.(map[string]any)
			if !ok {
				d.fail(p, "expected column object, got %T", item)
				continue
			}
			props.Columns = append(props.Columns, types.TableColumn{
				Key:    d.requiredString(col, p, "key"),
				Header: d.requiredString(col, p, "header"),
			})
		}
	}

	rowsRaw, present := obj["rows"]
	if !present {
		d.fail(joinPath(path, "rows"), "required field is missing")
	} else if arr, ok := rowsRaw.([]any); !ok {
		d.fail(joinPath(path, "rows"), "expected array, got %T", rowsRaw)
	} else {
		for i, item := range arr {
			row, ok := item.(map[string]any)
			if !ok {
				d.fail(indexPath(joinPath(path, "rows"), i), "expected row object, got %T", item)
				continue
			}
			props.Rows = append(props.Rows, row)
		}
	}

	return props
}

func (d *decoder) decodeCodeProps(obj map[string]any, path string) types.CodeProps {
	return types.CodeProps{
		Language: d.requiredString(obj, path, "language"),
		Code:     d.requiredString(obj, path, "code"),
	}
}

func (d *decoder) decodeContainerProps(obj map[string]any, path string) types.ContainerProps {
	gap := d.intField(obj, path, "gap", 12)
	// Gap is clamped, not rejected: any value renders, just bounded.
	if gap < 0 {
		gap = 0
	} else if gap > 48 {
		gap = 48
	}

	alignments := []string{
		string(types.AlignStart), string(types.AlignCenter), string(types.AlignEnd),
		string(types.AlignStretch), string(types.AlignBetween),
	}
	props := types.ContainerProps{
		Direction: types.Direction(d.enumString(obj, path, "direction",
			[]string{string(types.DirectionColumn), string(types.DirectionRow)},
			string(types.DirectionColumn))),
		Gap:      gap,
		Align:    types.Alignment(d.enumString(obj, path, "align", alignments, string(types.AlignStart))),
		Justify:  types.Alignment(d.enumString(obj, path, "justify", alignments, string(types.AlignStart))),
		Children: []types.Node{},
	}

	if raw, present := obj["children"]; present {
		props.Children = d.decodeNodeList(raw, joinPath(path, "children"))
	}
	return props
}

// ---------------------------------------------------------------------------
// Field helpers
// ---------------------------------------------------------------------------

// requiredString reads a mandatory non-empty string field.
func (d *decoder) requiredString(obj map[string]any, path, key string) string {
	raw, present := obj[key]
	if !present {
		d.fail(joinPath(path, key), "required field is missing")
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(joinPath(path, key), "expected string, got %T", raw)
		return ""
	}
	if s == "" {
		d.fail(joinPath(path, key), "must not be empty")
	}
	return s
}

// optionalString reads an optional string field, returning "" when absent.
func (d *decoder) optionalString(obj map[string]any, path, key string) string {
	raw, present := obj[key]
	if !present || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(joinPath(path, key), "expected string, got %T", raw)
		return ""
	}
	return s
}

// enumString reads a string field restricted to allowed values. An absent
// field takes def; def == "" marks the field required.
func (d *decoder) enumString(obj map[string]any, path, key string, allowed []string, def string) string {
	raw, present := obj[key]
	if !present || raw == nil {
		if def == "" {
			d.fail(joinPath(path, key), "required field is missing")
		}
		return def
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(joinPath(path, key), "expected string, got %T", raw)
		return def
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	d.fail(joinPath(path, key), "value %q must be one of %v", s, allowed)
	return def
}

// intField reads an optional integer field with a default. Non-integer
// numbers are rejected.
func (d *decoder) intField(obj map[string]any, path, key string, def int) int {
	raw, present := obj[key]
	if !present || raw == nil {
		return def
	}
	num, ok := raw.(float64)
	if !ok {
		d.fail(joinPath(path, key), "expected integer, got %T", raw)
		return def
	}
	if num != math.Trunc(num) {
		d.fail(joinPath(path, key), "expected integer, got %v", num)
		return def
	}
	return int(num)
}

// boolField reads an optional boolean field with a default.
func (d *decoder) boolField(obj map[string]any, path, key string, def bool) bool {
	raw, present := obj[key]
	if !present || raw == nil {
		return def
	}
	b, ok := raw.(bool)
	if !ok {
		d.fail(joinPath(path, key), "expected boolean, got %T", raw)
		return def
	}
	return b
}
