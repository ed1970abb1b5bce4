package domain

// Role identifies the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn entry in the conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
