package store

// MessageType distinguishes user-sent from bot-received messages.
type MessageType string

const (
	// MessageTypeSent is a message written by the user.
	MessageTypeSent MessageType = "sent"
	// MessageTypeReceived is a message produced by the agent.
	MessageTypeReceived MessageType = "received"
)

// Chat is a conversation owned by a user.
type Chat struct {
	ID        string
	UserID    string
	CreatedTs int64
}

// FindChat is the find condition for chat.
type FindChat struct {
	ID     *string
	UserID *string
}

// Message is a single chat message.
type Message struct {
	ID        int32
	ChatID    string
	Text      string
	Type      MessageType
	CreatedTs int64
}

// FindMessage is the find condition for message.
type FindMessage struct {
	ChatID *string
}
