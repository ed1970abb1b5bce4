package generation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"menurag/internal/domain"
)

// historyWindow is how many trailing conversation turns are surfaced to
// the generator.
const historyWindow = 3

// RestaurantDocs pairs a restaurant name with its retrieved documents,
// keeping the order the user asked about.
type RestaurantDocs struct {
	Name string
	Docs []domain.ScoredDocument
}

// FormatContext renders retrieved documents into the context block of a
// prompt. Documents are ordered by descending score; on ties, restaurant
// entries precede menu items. Absent metadata fields are omitted entirely.
func FormatContext(docs []domain.ScoredDocument) string {
	if len(docs) == 0 {
		return "No relevant information found."
	}
	sorted := make([]domain.ScoredDocument, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		// Restaurant entries precede menu items at equal score.
		return sorted[i].Type == domain.DocTypeRestaurant && sorted[j].Type != domain.DocTypeRestaurant
	})

	var parts []string
	for _, d := range sorted {
		md := d.Metadata
		switch d.Type {
		case domain.DocTypeRestaurant:
			parts = append(parts, fmt.Sprintf("Restaurant Information - %s:", md["name"]))
			if md["address"] != "" {
				parts = append(parts, fmt.Sprintf("Address: %s, %s, %s", md["address"], md["city"], md["state"]))
			}
			if md["hours"] != "" {
				parts = append(parts, "Hours: "+md["hours"])
			}
			if md["special_features"] != "" {
				parts = append(parts, "Special Features: "+md["special_features"])
			}
			if md["phone"] != "" {
				parts = append(parts, "Contact: "+md["phone"])
			}
		case domain.DocTypeMenuItem:
			parts = append(parts, fmt.Sprintf("Menu Item - %s - %s:", md["restaurant"], md["name"]))
			if md["price"] != "" {
				parts = append(parts, "Price: "+md["price"])
			}
			if md["description"] != "" {
				parts = append(parts, "Description: "+md["description"])
			}
			if md["section"] != "" {
				parts = append(parts, "Section: "+md["section"])
			}
			if md["dietary_info"] != "" {
				parts = append(parts, "Dietary Info: "+md["dietary_info"])
			}
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

// AnswerPrompt builds the general answer prompt from the retrieved context,
// an optional trailing window of the conversation, and the literal query.
func AnswerPrompt(query string, docs []domain.ScoredDocument, history []domain.Message) string {
	context := FormatContext(docs)

	historyText := ""
	if len(history) > 0 {
		start := len(history) - historyWindow
		if start < 0 {
			start = 0
		}
		var lines []string
		for _, m := range history[start:] {
			lines = append(lines, capitalize(string(m.Role))+": "+m.Content)
		}
		historyText = "\nPrevious Conversation:\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Based on the following information about restaurants and their menus,
please answer the query accurately and helpfully.

Context Information:
%s
%s

Query: %s

Answer:`, context, historyText, query)
}

// ComparisonPrompt builds the multi-restaurant comparison prompt: one block
// per restaurant with its special features and up to five menu items.
func ComparisonPrompt(query string, restaurants []RestaurantDocs) string {
	parts := []string{"Here is information about the restaurants you want to compare:"}

	for _, r := range restaurants {
		parts = append(parts, fmt.Sprintf("\n--- %s ---", r.Name))

		for _, d := range r.Docs {
			if d.Type == domain.DocTypeRestaurant {
				if sf := d.Metadata["special_features"]; sf != "" {
					parts = append(parts, "Special Features: "+sf)
				}
				break
			}
		}

		var items []domain.ScoredDocument
		for _, d := range r.Docs {
			if d.Type == domain.DocTypeMenuItem {
				items = append(items, d)
			}
		}
		if len(items) > 0 {
			parts = append(parts, "Menu Items:")
			if len(items) > 5 {
				items = items[:5]
			}
			for _, item := range items {
				md := item.Metadata
				line := "- " + md["name"]
				if md["price"] != "" {
					line += fmt.Sprintf(" (%s)", md["price"])
				}
				if md["dietary_info"] != "" {
					line += " - " + md["dietary_info"]
				}
				parts = append(parts, line)
			}
		}
	}

	return fmt.Sprintf(`Based on the following information about multiple restaurants,
please provide a comparison addressing this query.

%s

Query for comparison: %s

Detailed comparison:`, strings.Join(parts, " "), query)
}

// NoResultsPrompt builds the degraded prompt used when retrieval found
// nothing relevant.
func NoResultsPrompt(query string) string {
	return fmt.Sprintf(`I don't have specific information about that in my restaurant database.
However, I can try to give a general response.

Query: %s

Answer:`, query)
}

var (
	answerEchoRe = regexp.MustCompile(`^Answer:\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanResponse strips a leading "Answer:" echo and collapses internal
// whitespace to single spaces.
func CleanResponse(response string) string {
	response = answerEchoRe.ReplaceAllString(response, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(response, " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
