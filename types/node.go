package types

import (
	"encoding/json"
	"fmt"
)

// NodeKind is the discriminant of the node variant.
type NodeKind string

const (
	KindText      NodeKind = "text"
	KindHeading   NodeKind = "heading"
	KindButton    NodeKind = "button"
	KindInput     NodeKind = "input"
	KindForm      NodeKind = "form"
	KindList      NodeKind = "list"
	KindTable     NodeKind = "table"
	KindCode      NodeKind = "code"
	KindContainer NodeKind = "container"
)

// NodeKinds returns the closed set of node kinds in declaration order.
func NodeKinds() []NodeKind {
	return []NodeKind{
		KindText, KindHeading, KindButton, KindInput, KindForm,
		KindList, KindTable, KindCode, KindContainer,
	}
}

// TextVariant selects the text rendering style.
type TextVariant string

const (
	TextBody    TextVariant = "body"
	TextMuted   TextVariant = "muted"
	TextCaption TextVariant = "caption"
)

// ButtonVariant selects the button rendering style.
type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonDanger    ButtonVariant = "danger"
)

// InputType constrains the value an input accepts.
type InputType string

const (
	InputText     InputType = "text"
	InputEmail    InputType = "email"
	InputPassword InputType = "password"
	InputNumber   InputType = "number"
	InputDate     InputType = "date"
)

// Direction is the main axis of a container.
type Direction string

const (
	DirectionColumn Direction = "column"
	DirectionRow    Direction = "row"
)

// Alignment positions children on a container axis.
type Alignment string

const (
	AlignStart   Alignment = "start"
	AlignCenter  Alignment = "center"
	AlignEnd     Alignment = "end"
	AlignStretch Alignment = "stretch"
	AlignBetween Alignment = "between"
)

// Props is the sealed set of kind-specific property records. Exactly one
// concrete props type exists per NodeKind.
type Props interface {
	isProps()
}

// TextProps are the properties of a text node.
type TextProps struct {
	Text    string      `json:"text"`
	Variant TextVariant `json:"variant"`
}

// HeadingProps are the properties of a heading node. Level is in [1,4].
type HeadingProps struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ButtonProps are the properties of a button node.
type ButtonProps struct {
	Label    string        `json:"label"`
	Variant  ButtonVariant `json:"variant"`
	ActionID string        `json:"actionId,omitempty"`
}

// InputProps are the properties of an input node.
type InputProps struct {
	Name        string    `json:"name"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Value       string    `json:"value,omitempty"`
	Required    bool      `json:"required,omitempty"`
	InputType   InputType `json:"inputType"`
}

// FormProps are the properties of a form node. Fields is restricted to
// input nodes; the schema validator enforces this.
type FormProps struct {
	Title       string `json:"title,omitempty"`
	SubmitLabel string `json:"submitLabel"`
	ActionID    string `json:"actionId,omitempty"`
	Fields      []Node `json:"fields"`
}

// ListProps are the properties of a list node.
type ListProps struct {
	Items []string `json:"items"`
}

// TableColumn describes one table column.
type TableColumn struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// TableProps are the properties of a table node. Each row maps column keys
// to cell values.
type TableProps struct {
	Columns []TableColumn    `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// CodeProps are the properties of a code node.
type CodeProps struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// ContainerProps are the properties of a container node. Gap is in [0,48].
type ContainerProps struct {
	Direction Direction `json:"direction"`
	Gap       int       `json:"gap"`
	Align     Alignment `json:"align"`
	Justify   Alignment `json:"justify"`
	Children  []Node    `json:"children"`
}

func (TextProps) isProps()      {}
func (HeadingProps) isProps()   {}
func (ButtonProps) isProps()    {}
func (InputProps) isProps()     {}
func (FormProps) isProps()      {}
func (ListProps) isProps()      {}
func (TableProps) isProps()     {}
func (CodeProps) isProps()      {}
func (ContainerProps) isProps() {}

// Node is one element of the output forest: a tagged variant of the kinds
// above. ID is optional on input and mandatory after normalization.
type Node struct {
	Kind  NodeKind
	ID    string
	Props Props
}

// propsKind returns the NodeKind a concrete props value belongs to.
// The switch is exhaustive over the sealed Props set; adding a node kind
// without extending it is a hard error at marshal time.
func propsKind(p Props) (NodeKind, error) {
	switch p.(type) {
	case TextProps:
		return KindText, nil
	case HeadingProps:
		return KindHeading, nil
	case ButtonProps:
		return KindButton, nil
	case InputProps:
		return KindInput, nil
	case FormProps:
		return KindForm, nil
	case ListProps:
		return KindList, nil
	case TableProps:
		return KindTable, nil
	case CodeProps:
		return KindCode, nil
	case ContainerProps:
		return KindContainer, nil
	}
	return "", fmt.Errorf("unhandled props type %T", p)
}

type nodeWire struct {
	Kind  NodeKind `json:"kind"`
	ID    string   `json:"id,omitempty"`
	Props Props    `json:"props"`
}

// MarshalJSON emits the wire shape {kind, id?, props}. It refuses to emit a
// node whose props do not match its kind.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Props == nil {
		return nil, fmt.Errorf("node %q has nil props", n.Kind)
	}
	pk, err := propsKind(n.Props)
	if err != nil {
		return nil, err
	}
	if pk != n.Kind {
		return nil, fmt.Errorf("node kind %q carries %q props", n.Kind, pk)
	}
	return json.Marshal(nodeWire{Kind: n.Kind, ID: n.ID, Props: n.Props})
}

// Constructors for the common kinds. They fill the declared defaults so a
// hand-built tree is valid without a validation round trip.

// NewText creates a body-variant text node.
func NewText(text string) Node {
	return Node{Kind: KindText, Props: TextProps{Text: text, Variant: TextBody}}
}

// NewTextVariant creates a text node with an explicit variant.
func NewTextVariant(text string, variant TextVariant) Node {
	return Node{Kind: KindText, Props: TextProps{Text: text, Variant: variant}}
}

// NewHeading creates a heading node at the given level.
func NewHeading(text string, level int) Node {
	return Node{Kind: KindHeading, Props: HeadingProps{Text: text, Level: level}}
}

// NewButton creates a primary button node.
func NewButton(label string) Node {
	return Node{Kind: KindButton, Props: ButtonProps{Label: label, Variant: ButtonPrimary}}
}

// NewInput creates a text input node with the given field name.
func NewInput(name string) Node {
	return Node{Kind: KindInput, Props: InputProps{Name: name, InputType: InputText}}
}

// NewList creates a list node.
func NewList(items ...string) Node {
	return Node{Kind: KindList, Props: ListProps{Items: items}}
}

// NewCode creates a code node.
func NewCode(language, code string) Node {
	return Node{Kind: KindCode, Props: CodeProps{Language: language, Code: code}}
}

// NewTable creates a table node.
func NewTable(columns []TableColumn, rows []map[string]any) Node {
	return Node{Kind: KindTable, Props: TableProps{Columns: columns, Rows: rows}}
}

// NewColumn creates a vertical container with default spacing.
func NewColumn(children ...Node) Node {
	return newContainer(DirectionColumn, children)
}

// NewRow creates a horizontal container with default spacing.
func NewRow(children ...Node) Node {
	return newContainer(DirectionRow, children)
}

func newContainer(dir Direction, children []Node) Node {
	return Node{Kind: KindContainer, Props: ContainerProps{
		Direction: dir,
		Gap:       12,
		Align:     AlignStart,
		Justify:   AlignStart,
		Children:  children,
	}}
}
