package types

// Role represents the role of a conversation participant.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ChatMessage is one turn of the conversation history carried alongside a
// generation request and echoed in the envelope. Content must be non-empty.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user chat message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant chat message.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// ActionType classifies what an action does when triggered by the renderer.
type ActionType string

const (
	ActionSubmit    ActionType = "submit"
	ActionNavigate  ActionType = "navigate"
	ActionOpenURL   ActionType = "open_url"
	ActionEmitEvent ActionType = "emit_event"
	ActionCall      ActionType = "call"
)

// ActionTypes returns the closed set of action types.
func ActionTypes() []ActionType {
	return []ActionType{ActionSubmit, ActionNavigate, ActionOpenURL, ActionEmitEvent, ActionCall}
}

// Action is a named behavior a node can reference through its actionId.
type Action struct {
	ID     string         `json:"id"`
	Type   ActionType     `json:"type"`
	Label  string         `json:"label,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Envelope is the top-level response: a node forest plus metadata.
// Envelopes are immutable value trees created fresh per request; the
// normalizer returns a new envelope rather than editing one in place.
type Envelope struct {
	Title            string        `json:"title,omitempty"`
	Description      string        `json:"description,omitempty"`
	Messages         []ChatMessage `json:"messages"`
	UI               []Node        `json:"ui"`
	Actions          []Action      `json:"actions"`
	Suggestions      []string      `json:"suggestions"`
	FollowUpQuestion string        `json:"followUpQuestion,omitempty"`
}
