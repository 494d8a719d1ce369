// Package transport defines the chat-transport boundary: the inbound event
// shapes the dispatcher consumes and the outbound send it produces. The
// concrete adapter (internal/telegram) maps its protocol onto these types;
// the core never imports a chat library.
package transport

import "context"

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is an attachment reference. Ref is opaque to the core; the adapter
// that produced it is the only component able to resolve or re-send it.
type Media struct {
	Kind MediaKind
	Ref  string
}

// Event is one inbound chat message. ReplyTo carries the identity of the
// participant whose message this one replies to, if any.
type Event struct {
	SenderID       string
	ConversationID string
	Text           string
	Media          *Media
	ReplyTo        string
}

// Join reports participants added to a conversation.
type Join struct {
	ConversationID string
	JoinedIDs      []string
}

// Outbound is a send request. HighlightIDs lists participant identities the
// adapter should call out in the delivered message.
type Outbound struct {
	ConversationID string
	Text           string
	Media          *Media
	HighlightIDs   []string
}

// Sender executes outbound sends. Delivery is fire-and-forget from the
// ledger's perspective: a send error never rolls back a prior mutation.
type Sender interface {
	Send(ctx context.Context, out Outbound) error
}
