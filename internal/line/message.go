package line

// MessageType classifies an outbound record. Only TypeEvent is special; any
// other value carries user-visible content.
type MessageType string

const (
	// TypeEvent marks system events (joins, typing indicators, ...) that are
	// never pushed to the recipient.
	TypeEvent MessageType = "EVENT"
	// TypeText is the usual content type.
	TypeText MessageType = "TEXT"
)

// Message is an outbound record produced by the conversation platform
type Message struct {
	Type    MessageType `json:"Type"`
	Content string      `json:"Content"`
}

// IsEvent reports whether m is an event record
func (m Message) IsEvent() bool {
	return m.Type == TypeEvent
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
