package normalize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/uigen/types"
)

// sequentialIDs returns a deterministic IDSource minting n1, n2, ...
func sequentialIDs() IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func TestNodesMintsMissingIDs(t *testing.T) {
	in := []types.Node{
		types.NewText("a"),
		types.NewButton("Go"),
	}
	out := NodesWithSource(sequentialIDs(), in)

	require.Len(t, out, 2)
	assert.Equal(t, "n1", out[0].ID)
	assert.Equal(t, "n2", out[1].ID)
	// Input is untouched.
	assert.Empty(t, in[0].ID)
	assert.Empty(t, in[1].ID)
}

func TestNodesPreservesExistingIDs(t *testing.T) {
	in := []types.Node{
		{Kind: types.KindText, ID: "keep", Props: types.TextProps{Text: "a", Variant: types.TextBody}},
		types.NewText("b"),
	}
	out := NodesWithSource(sequentialIDs(), in)

	assert.Equal(t, "keep", out[0].ID)
	assert.Equal(t, "n1", out[1].ID)
}

func TestNodesPreOrderTraversal(t *testing.T) {
	in := []types.Node{
		types.NewColumn(
			types.NewText("first child"),
			types.NewRow(types.NewText("grandchild")),
		),
		types.NewText("second root"),
	}
	out := NodesWithSource(sequentialIDs(), in)

	// Parent before children, siblings in order.
	assert.Equal(t, "n1", out[0].ID)
	col := out[0].Props.(types.ContainerProps)
	assert.Equal(t, "n2", col.Children[0].ID)
	assert.Equal(t, "n3", col.Children[1].ID)
	row := col.Children[1].Props.(types.ContainerProps)
	assert.Equal(t, "n4", row.Children[0].ID)
	assert.Equal(t, "n5", out[1].ID)
}

func TestNodesRecursesFormFields(t *testing.T) {
	form := types.Node{Kind: types.KindForm, Props: types.FormProps{
		SubmitLabel: "Go",
		Fields: []types.Node{
			types.NewInput("email"),
			{Kind: types.KindInput, ID: "pw", Props: types.InputProps{Name: "password", InputType: types.InputPassword}},
		},
	}}
	out := NodesWithSource(sequentialIDs(), []types.Node{form})

	props := out[0].Props.(types.FormProps)
	assert.Equal(t, "n1", out[0].ID)
	assert.Equal(t, "n2", props.Fields[0].ID)
	assert.Equal(t, "pw", props.Fields[1].ID)
}

func TestEnvelopeNormalizesUIOnly(t *testing.T) {
	env := &types.Envelope{
		Title:       "t",
		UI:          []types.Node{types.NewText("a")},
		Messages:    []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}},
		Actions:     []types.Action{},
		Suggestions: []string{"s"},
	}
	out := Envelope(env)

	require.NotSame(t, env, out)
	assert.NotEmpty(t, out.UI[0].ID)
	assert.Empty(t, env.UI[0].ID)
	assert.Equal(t, env.Title, out.Title)
	assert.Equal(t, env.Messages, out.Messages)
	assert.Equal(t, env.Suggestions, out.Suggestions)
}

func TestNodesDefaultSourceIsUUID(t *testing.T) {
	out := Nodes([]types.Node{types.NewText("a")})
	require.Len(t, out, 1)
	assert.Len(t, out[0].ID, 36, "expected RFC 4122 string form")
}
