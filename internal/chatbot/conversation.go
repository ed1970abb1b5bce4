package chatbot

import (
	"context"

	"menurag/internal/domain"
)

// Conversation binds a chatbot to a single session, exposing the surface a
// presentation layer needs. The chatbot itself is stateless between turns
// and may back any number of conversations.
type Conversation struct {
	bot     *Chatbot
	session *Session
}

func NewConversation(bot *Chatbot) *Conversation {
	return &Conversation{bot: bot, session: NewSession()}
}

// Answer runs one turn against the bound session.
func (c *Conversation) Answer(ctx context.Context, query string) (string, error) {
	return c.bot.Answer(ctx, c.session, query)
}

// History returns a copy of the conversation so far.
func (c *Conversation) History() []domain.Message {
	return c.session.History()
}

// ClearHistory resets the conversation.
func (c *Conversation) ClearHistory() {
	c.session.ClearHistory()
}

// SessionID identifies the bound session.
func (c *Conversation) SessionID() string {
	return c.session.ID()
}
