package faq

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Score thresholds for a search result.
const (
	// MinScore is the score a question must beat to be returned at all.
	MinScore = 0.3
	// HighConfidence is the score from which the answer is given as is.
	HighConfidence = 0.6
)

// Replies used when the answer is hedged or missing.
const (
	ReplyHedge   = "Ik denk dat dit je vraag beantwoordt:"
	ReplyRephrase = "Als dit niet klopt, kun je je vraag misschien anders formuleren?"
	ReplyNoMatch = "Excuses, ik kon geen duidelijk antwoord vinden op je vraag. Probeer het misschien anders te formuleren. Je kunt vragen naar het evenement, inschrijving, routes, ondersteuning of het programma."
)

var stopwords = map[string]bool{
	"de": true, "het": true, "een": true, "en": true, "is": true, "dat": true, "dit": true,
	"van": true, "te": true, "in": true, "op": true, "voor": true, "met": true, "zijn": true,
	"er": true, "aan": true, "niet": true, "ook": true, "om": true, "als": true, "dan": true,
	"bij": true, "nog": true, "maar": true, "of": true, "wel": true, "door": true,
}

// Match is the best answer found for a query.
type Match struct {
	Item        Item    `json:"item"`
	Confidence  float64 `json:"confidence"`
	ContextHint string  `json:"contextHint"`
}

// Confident reports whether the answer can be given without a hedge.
func (m Match) Confident() bool {
	return m.Confidence >= HighConfidence
}

// Normalize lowercases s, strips accents and punctuation, and trims it.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// keywords splits normalised text into words, dropping stopwords and words
// of two characters or fewer.
func keywords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if stopwords[w] || utf8.RuneCountInString(w) <= 2 {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Similarity scores query against a question between 0 and 1. Equal text
// scores 1, containment 0.9, and otherwise the share of query keywords found
// in the question.
func Similarity(query, question string) float64 {
	if query == question {
		return 1
	}
	q, qs := Normalize(query), Normalize(question)
	if q == "" {
		return 0
	}
	if q == qs {
		return 1
	}
	if strings.Contains(qs, q) || strings.Contains(q, qs) {
		return 0.9
	}
	qWords := keywords(q)
	if len(qWords) == 0 {
		return 0
	}
	sWords := keywords(qs)
	matched := 0
	for _, qw := range qWords {
		for _, sw := range sWords {
			if qw == sw ||
				(utf8.RuneCountInString(qw) > 3 && strings.Contains(sw, qw)) ||
				(utf8.RuneCountInString(sw) > 3 && strings.Contains(qw, sw)) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(qWords))
}

// Search returns the item best answering query. A question typed exactly
// wins outright; otherwise the highest score above MinScore wins and ties go
// to the earlier item.
// PRE: none
// POST: ok is false for a blank query or when no item beats MinScore
func Search(items []Item, query string) (Match, bool) {
	if strings.TrimSpace(query) == "" {
		return Match{}, false
	}
	for _, it := range items {
		if it.Question == query {
			return newMatch(it, 1), true
		}
	}
	var (
		best  Item
		score float64
		found bool
	)
	for _, it := range items {
		s := Similarity(query, it.Question)
		if s > score && s > MinScore {
			best, score, found = it, s, true
		}
	}
	if !found {
		return Match{}, false
	}
	return newMatch(best, score), true
}

func newMatch(it Item, score float64) Match {
	return Match{Item: it, Confidence: score, ContextHint: contextHint(it.Category)}
}

func contextHint(category string) string {
	if category == "" {
		return "faq_general"
	}
	return "faq_" + strings.Join(strings.Fields(Normalize(category)), "_")
}

// Reply is the assistant's answer text for a search result. Hedged answers
// are wrapped in ReplyHedge and ReplyRephrase; action items end with a
// pointer to the action.
func Reply(m Match, ok bool) string {
	if !ok {
		return ReplyNoMatch
	}
	answer := m.Item.Answer
	if m.Item.Action && m.Item.ActionText != "" {
		answer += "\n\nKlik hier om: " + m.Item.ActionText
	}
	if m.Confident() {
		return answer
	}
	return ReplyHedge + "\n\n" + answer + "\n\n" + ReplyRephrase
}
