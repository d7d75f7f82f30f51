package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/uigen/types"
)

func TestSynthesizeDeterministic(t *testing.T) {
	prompts := []string{
		"Show me pricing plans",
		"Build a sales dashboard",
		"Anything else entirely",
	}
	for _, p := range prompts {
		a := Synthesize(p)
		b := Synthesize(p)
		assert.Equal(t, a, b, "prompt %q", p)
	}
}

func TestSynthesizePricing(t *testing.T) {
	env, rule := SynthesizeNamed("Compare PRICING tiers for us")
	assert.Equal(t, "pricing", rule)
	assert.Equal(t, "Pricing", env.Title)

	require.Len(t, env.UI, 1)
	table := env.UI[0]
	assert.Equal(t, types.KindTable, table.Kind)

	props := table.Props.(types.TableProps)
	require.Len(t, props.Columns, 3)
	assert.Equal(t, "tier", props.Columns[0].Key)
	require.Len(t, props.Rows, 2)
	assert.Equal(t, "Basic", props.Rows[0]["tier"])
	assert.Equal(t, "$29/mo", props.Rows[1]["price"])
}

func TestSynthesizeDashboard(t *testing.T) {
	env, rule := SynthesizeNamed("Give me a KPI overview")
	assert.Equal(t, "dashboard", rule)

	require.Len(t, env.UI, 1)
	row := env.UI[0]
	assert.Equal(t, types.KindContainer, row.Kind)

	props := row.Props.(types.ContainerProps)
	assert.Equal(t, types.DirectionRow, props.Direction)
	require.Len(t, props.Children, 3)
	for _, stat := range props.Children {
		statProps := stat.Props.(types.ContainerProps)
		assert.Equal(t, types.DirectionColumn, statProps.Direction)
		assert.Len(t, statProps.Children, 3)
	}
}

func TestSynthesizeEchoCatchAll(t *testing.T) {
	prompt := "Translate this haiku into morse code"
	env, rule := SynthesizeNamed(prompt)
	assert.Equal(t, "echo", rule)

	require.Len(t, env.UI, 1)
	col := env.UI[0].Props.(types.ContainerProps)
	require.Len(t, col.Children, 2)
	assert.Equal(t, types.KindHeading, col.Children[0].Kind)
	text := col.Children[1].Props.(types.TextProps)
	assert.Equal(t, prompt, text.Text, "echo must carry the prompt verbatim")
}

func TestSynthesizeFirstMatchWins(t *testing.T) {
	// Matches both pricing and dashboard keywords; pricing is first.
	_, rule := SynthesizeNamed("pricing dashboard")
	assert.Equal(t, "pricing", rule)
}

func TestSynthesizeCaseInsensitive(t *testing.T) {
	_, rule := SynthesizeNamed("DASHBOARD please")
	assert.Equal(t, "dashboard", rule)
}

func TestSynthesizeEnvelopeInvariants(t *testing.T) {
	for _, prompt := range []string{"pricing", "dashboard time", "whatever"} {
		env := Synthesize(prompt)

		assert.NotNil(t, env.Messages, "prompt %q", prompt)
		assert.NotNil(t, env.Actions, "prompt %q", prompt)
		assert.GreaterOrEqual(t, len(env.Suggestions), 3, "prompt %q", prompt)
		assert.NotEmpty(t, env.UI, "prompt %q", prompt)

		// Every synthesized node must leave ID minting to the normalizer.
		for _, n := range env.UI {
			assert.Empty(t, n.ID)
		}
	}
}
