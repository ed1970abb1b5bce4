package extractive

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Generator produces answers without an external model by selecting the
// context lines most relevant to the query out of the rendered prompt.
// Lines are scored by token overlap with the query (Ochiai coefficient),
// falling back to term frequency when nothing overlaps. Deterministic, so
// the chatbot stays usable offline.
type Generator struct {
	maxFacts     int
	tokenPattern *regexp.Regexp
}

func New(maxFacts int) *Generator {
	if maxFacts <= 0 {
		maxFacts = 5
	}
	return &Generator{
		maxFacts:     maxFacts,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
	}
}

func (g *Generator) Name() string { return "extractive" }

// Generate picks the most query-relevant fact lines from the prompt and
// joins them into a single answer. maxLength loosely caps the answer in
// characters.
func (g *Generator) Generate(_ context.Context, prompt string, maxLength int) (string, error) {
	query, facts := g.split(prompt)
	if len(facts) == 0 {
		return "I don't have information about that in my restaurant database.", nil
	}

	qset := g.tokenSet(query)
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(facts))
	for i, line := range facts {
		scores[i] = scored{i, g.ochiai(qset, line)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := g.maxFacts
	if n > len(scores) {
		n = len(scores)
	}
	// Once anything overlaps the query, unrelated lines add nothing.
	if scores[0].score > 0 {
		for n > 0 && scores[n-1].score == 0 {
			n--
		}
	}
	selected := make([]int, n)
	for i := 0; i < n; i++ {
		selected[i] = scores[i].idx
	}
	// Keep prompt order among the selected facts.
	sort.Ints(selected)

	var out []string
	total := 0
	for _, idx := range selected {
		line := facts[idx]
		if maxLength > 0 && total+len(line) > maxLength && len(out) > 0 {
			break
		}
		out = append(out, line)
		total += len(line)
	}
	return strings.Join(out, " "), nil
}

// split separates the prompt into the query text and the candidate fact
// lines of its context block.
func (g *Generator) split(prompt string) (query string, facts []string) {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if q, ok := strings.CutPrefix(line, "Query for comparison:"); ok {
			query = strings.TrimSpace(q)
			continue
		}
		if q, ok := strings.CutPrefix(line, "Query:"); ok {
			query = strings.TrimSpace(q)
			continue
		}
		// Template labels are not facts.
		if line == "Context Information:" || line == "Answer:" || line == "Detailed comparison:" || line == "Previous Conversation:" {
			continue
		}
		if strings.Contains(line, ": ") || strings.HasSuffix(line, ":") || strings.HasPrefix(line, "- ") {
			facts = append(facts, line)
		}
	}
	return query, facts
}

func (g *Generator) tokenSet(s string) map[string]struct{} {
	tokens := g.tokenPattern.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// ochiai is |A∩B| / sqrt(|A||B|) over the token sets of query and line.
func (g *Generator) ochiai(qset map[string]struct{}, line string) float64 {
	tokens := g.tokenPattern.FindAllString(strings.ToLower(line), -1)
	seen := make(map[string]struct{}, len(tokens))
	inter := 0
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}
