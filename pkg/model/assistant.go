package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required,max=4000"`
}

// AssistantRequest is either a single query or a running conversation.
// Guests and Location are optional hints forwarded to the catalog filter.
type AssistantRequest struct {
	Query    string        `json:"query,omitempty" validate:"max=2000"`
	Messages []ChatMessage `json:"messages,omitempty" validate:"max=50,dive"`
	Guests   int           `json:"guests,omitempty" validate:"min=0,max=50"`
	Location string        `json:"location,omitempty" validate:"max=100"`
}

type ImageRef struct {
	URL  string `json:"url"`
	Slug string `json:"slug"`
}

type AssistantResponse struct {
	Success           bool       `json:"success"`
	Response          string     `json:"response"`
	Query             string     `json:"query,omitempty"`
	Model             string     `json:"model"`
	RemainingRequests int        `json:"remainingRequests"`
	Images            []ImageRef `json:"images,omitempty"`
}
