// Package fallback deterministically constructs a schema-valid envelope
// approximating the user's request when generation is unavailable or its
// output fails validation. It is total: every prompt maps to some envelope,
// so callers using the built-in schema always receive a renderable forest.
package fallback

import (
	"strings"

	"github.com/BaSui01/uigen/types"
)

// rule pairs a prompt predicate with an envelope builder. Rules are tried
// in order and the first match wins.
type rule struct {
	name  string
	match func(prompt string) bool
	build func(prompt string) *types.Envelope
}

// rules is the ordered rule table. Keyword lists are matched against the
// lowercased prompt.
var rules = []rule{
	{
		name:  "pricing",
		match: containsAny("pricing", "plans", "tier"),
		build: buildPricing,
	},
	{
		name:  "dashboard",
		match: containsAny("dashboard", "stat", "kpi", "metric", "card"),
		build: buildDashboard,
	},
}

// Synthesize builds an envelope for the prompt. The result still needs to
// run through the normalizer, exactly like genuine backend output.
func Synthesize(prompt string) *types.Envelope {
	env, _ := SynthesizeNamed(prompt)
	return env
}

// SynthesizeNamed also reports which rule produced the envelope, for
// instrumentation. The catch-all echo rule is named "echo".
func SynthesizeNamed(prompt string) (*types.Envelope, string) {
	lowered := strings.ToLower(prompt)
	for _, r := range rules {
		if r.match(lowered) {
			return r.build(prompt), r.name
		}
	}
	return buildEcho(prompt), "echo"
}

func containsAny(keywords ...string) func(string) bool {
	return func(prompt string) bool {
		for _, kw := range keywords {
			if strings.Contains(prompt, kw) {
				return true
			}
		}
		return false
	}
}

func emptyMeta(env *types.Envelope) *types.Envelope {
	env.Messages = []types.ChatMessage{}
	env.Actions = []types.Action{}
	return env
}

func buildPricing(string) *types.Envelope {
	table := types.NewTable(
		[]types.TableColumn{
			{Key: "tier", Header: "Tier"},
			{Key: "price", Header: "Price"},
			{Key: "features", Header: "Features"},
		},
		[]map[string]any{
			{"tier": "Basic", "price": "$9/mo", "features": "Core features"},
			{"tier": "Pro", "price": "$29/mo", "features": "Everything in Basic, plus priority support"},
		},
	)
	return emptyMeta(&types.Envelope{
		Title:       "Pricing",
		Description: "Example pricing tiers",
		UI:          []types.Node{table},
		Suggestions: []string{
			"Add an enterprise tier",
			"Highlight the most popular plan",
			"Show yearly pricing",
		},
	})
}

func buildDashboard(string) *types.Envelope {
	stat := func(label, value, trend string) types.Node {
		return types.NewColumn(
			types.NewTextVariant(label, types.TextMuted),
			types.NewHeading(value, 3),
			types.NewTextVariant(trend, types.TextCaption),
		)
	}
	row := types.NewRow(
		stat("Revenue", "$12,480", "+8.2% vs last month"),
		stat("Active users", "1,284", "+3.1% vs last month"),
		stat("Conversion", "4.7%", "-0.4% vs last month"),
	)
	return emptyMeta(&types.Envelope{
		Title:       "Dashboard",
		Description: "Example metric overview",
		UI:          []types.Node{row},
		Suggestions: []string{
			"Add a revenue chart",
			"Break metrics down by region",
			"Show a longer time range",
		},
	})
}

func buildEcho(prompt string) *types.Envelope {
	return emptyMeta(&types.Envelope{
		Title: "Request",
		UI: []types.Node{
			types.NewColumn(
				types.NewHeading("Request", 2),
				types.NewText(prompt),
			),
		},
		Suggestions: []string{
			"Rephrase the request",
			"Describe the layout you want",
			"Name the fields or columns to include",
		},
	})
}
