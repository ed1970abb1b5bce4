package chatbot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"menurag/internal/domain"
	"menurag/internal/generation"
	"menurag/internal/intent"
	"menurag/internal/retrieval"
)

const (
	// genericTopK is the result count for generic retrieval.
	genericTopK = 5
	// maxAnswerLength bounds the generated answer.
	maxAnswerLength = 512
)

// Chatbot answers natural-language questions about the indexed restaurants
// by classifying the query intent, dispatching the matching retrieval
// strategy and conditioning generation on the retrieved context.
type Chatbot struct {
	retriever *retrieval.Retriever
	generator domain.Generator
	log       *zap.Logger
}

func New(retriever *retrieval.Retriever, generator domain.Generator, log *zap.Logger) *Chatbot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chatbot{retriever: retriever, generator: generator, log: log}
}

// Answer processes one conversation turn. The user message is recorded
// before any retrieval; if retrieval or generation fails, the turn fails
// with the user message still in history and no assistant entry, so a
// failed turn never corrupts the conversation.
func (c *Chatbot) Answer(ctx context.Context, session *Session, query string) (string, error) {
	session.append(domain.RoleUser, query)

	in := intent.Classify(query, c.retriever.KnownRestaurantNames())
	c.log.Debug("classified query",
		zap.String("session", session.ID()),
		zap.String("intent", string(in.Type)))

	response, err := c.respond(ctx, session, query, in)
	if err != nil {
		c.log.Warn("turn failed", zap.String("session", session.ID()), zap.Error(err))
		return "", err
	}

	session.append(domain.RoleAssistant, response)
	return response, nil
}

func (c *Chatbot) respond(ctx context.Context, session *Session, query string, in domain.Intent) (string, error) {
	switch in.Type {
	case domain.IntentComparison:
		restaurants := make([]generation.RestaurantDocs, 0, len(in.Restaurants))
		for _, name := range in.Restaurants {
			docs, err := c.retriever.SearchByRestaurant(ctx, name, retrieval.DefaultTopK)
			if err != nil {
				return "", err
			}
			restaurants = append(restaurants, generation.RestaurantDocs{Name: name, Docs: docs})
		}
		return c.generate(ctx, generation.ComparisonPrompt(query, restaurants))

	case domain.IntentDietary:
		docs, err := c.retriever.SearchDietaryOptions(ctx, in.Preference, retrieval.DefaultTopK)
		if err != nil {
			return "", err
		}
		if len(docs) == 0 {
			return fmt.Sprintf("I couldn't find any menu items with %s dietary preference in our database.", in.Preference), nil
		}
		return c.generate(ctx, generation.AnswerPrompt(query, docs, session.History()))

	case domain.IntentMenuItem:
		docs, err := c.retriever.SearchMenuItems(ctx, query, retrieval.DefaultTopK)
		if err != nil {
			return "", err
		}
		if len(docs) == 0 {
			docs, err = c.retriever.RetrieveWithFallback(ctx, query, genericTopK)
			if err != nil {
				return "", err
			}
		}
		if len(docs) == 0 {
			return c.generate(ctx, generation.NoResultsPrompt(query))
		}
		return c.generate(ctx, generation.AnswerPrompt(query, docs, session.History()))

	case domain.IntentRestaurantInfo:
		docs, err := c.retriever.SearchByRestaurant(ctx, in.Restaurant, retrieval.DefaultTopK)
		if err != nil {
			return "", err
		}
		if len(docs) == 0 {
			return fmt.Sprintf("I couldn't find information about %s in our database.", in.Restaurant), nil
		}
		return c.generate(ctx, generation.AnswerPrompt(query, docs, session.History()))

	default:
		docs, err := c.retriever.RetrieveWithFallback(ctx, query, genericTopK)
		if err != nil {
			return "", err
		}
		if len(docs) == 0 {
			return c.generate(ctx, generation.NoResultsPrompt(query))
		}
		return c.generate(ctx, generation.AnswerPrompt(query, docs, session.History()))
	}
}

func (c *Chatbot) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := c.generator.Generate(ctx, prompt, maxAnswerLength)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return generation.CleanResponse(raw), nil
}
