package providers

import "github.com/BaSui01/uigen/llm"

// ChooseModel selects the model to use, by priority: the request model,
// then the configured model, then the adapter's default.
func ChooseModel(req *llm.ChatRequest, configModel, defaultModel string) string {
	if req != nil && req.Model != "" {
		return req.Model
	}
	if configModel != "" {
		return configModel
	}
	return defaultModel
}
