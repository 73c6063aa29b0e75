package model

// AIModel describes one entry of the static model routing table: a model
// identifier exposed to clients mapped to the provider that serves it.
type AIModel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Default  bool   `json:"default,omitempty"`
}

// AIModels is the routing table. Model selection is a static lookup; there is
// no dynamic registration.
var AIModels = []AIModel{
	{ID: "gpt-4o", Name: "GPT-4o", Provider: "openai"},
	{ID: "gpt-4o-mini", Name: "GPT-4o mini", Provider: "openai"},
	{ID: "claude-3.5", Name: "Claude 3.5 Sonnet", Provider: "anthropic", Default: true},
	{ID: "claude-3.7", Name: "Claude 3.7 Sonnet", Provider: "anthropic"},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: "google"},
}

// LookupAIModel resolves a model id against the routing table.
func LookupAIModel(id string) (AIModel, bool) {
	for _, m := range AIModels {
		if m.ID == id {
			return m, true
		}
	}
	return AIModel{}, false
}
