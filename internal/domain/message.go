// Package domain defines the conversation model shared across the client.
package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Kind distinguishes message payloads.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Message is a single entry in a session's log. Messages are append-only:
// once added to a session they are never mutated or removed individually.
type Message struct {
	Role      Role      `json:"role"`
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"` // text body, or the image URL for KindImage
	Timestamp time.Time `json:"timestamp"`
}

// UserMessage builds a user-authored text message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Kind: KindText, Content: text, Timestamp: time.Now()}
}

// BotText builds a service-authored text message. The content may itself be a
// JSON array of uniform objects; the renderer decides whether to show it as a
// table, the model treats it as opaque text.
func BotText(text string) Message {
	return Message{Role: RoleBot, Kind: KindText, Content: text, Timestamp: time.Now()}
}

// BotImage builds a service-authored image reference.
func BotImage(url string) Message {
	return Message{Role: RoleBot, Kind: KindImage, Content: url, Timestamp: time.Now()}
}
