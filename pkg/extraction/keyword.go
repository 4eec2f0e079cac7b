package extraction

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	phonePattern = regexp.MustCompile(`(\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}|\d{10})`)

	weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

	intentKeywords = map[string][]string{
		"schedule":   {"schedule", "appointment", "book", "reserve"},
		"reschedule": {"reschedule", "different", "another", "change"},
		"cancel":     {"cancel", "nevermind", "forget", "stop"},
		"confirm":    {"yes", "correct", "right", "sure", "okay"},
		"deny":       {"no", "wrong", "incorrect", "not"},
		"billing":    {"billing", "invoice", "charge", "payment", "refund"},
		"technical":  {"broken", "error", "bug", "crash", "down"},
	}

	intentScores = map[string]float64{
		"schedule":   0.8,
		"reschedule": 0.8,
		"cancel":     0.8,
		"confirm":    0.9,
		"deny":       0.9,
		"billing":    0.8,
		"technical":  0.8,
	}
)

// KeywordExtractor is the default heuristic implementation: phrase and
// pattern matching only, no model behind it.
type KeywordExtractor struct{}

// NewKeywordExtractor returns the default extractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// ExtractEntities pulls the handful of slot types the appointment and
// customer-service scripts care about: name, reason, weekday, clock time,
// email and phone.
func (e *KeywordExtractor) ExtractEntities(text string) map[string]string {
	entities := make(map[string]string)
	lowered := strings.ToLower(text)

	if value, ok := phraseTail(lowered, "name is "); ok {
		entities["name"] = value
	}

	if value, ok := phraseTail(lowered, "appointment for "); ok {
		entities["reason"] = value
	}

	for _, day := range weekdays {
		if strings.Contains(lowered, day) {
			entities["date"] = day

			break
		}
	}

	if clock, ok := extractClock(lowered); ok {
		entities["time"] = clock
	}

	if strings.Contains(lowered, "email") || strings.Contains(lowered, "@") {
		if match := emailPattern.FindString(text); match != "" {
			entities["email"] = match
			entities["contact_method"] = "email"
			entities["contact_info"] = match
		}
	}

	if strings.Contains(lowered, "phone") {
		if match := phonePattern.FindString(text); match != "" {
			entities["phone"] = match
			entities["contact_method"] = "phone"
			entities["contact_info"] = match
		}
	}

	return entities
}

// DetectIntents scores the closed intent set by keyword hits. Scores are
// fixed per intent; the evaluator's threshold and arg-max rule do the rest.
func (e *KeywordExtractor) DetectIntents(text string) map[string]float64 {
	intents := make(map[string]float64, len(intentKeywords))
	lowered := strings.ToLower(text)

	for intent := range intentKeywords {
		intents[intent] = 0.0
	}

	for intent, keywords := range intentKeywords {
		for _, keyword := range keywords {
			if containsWord(lowered, keyword) {
				intents[intent] = intentScores[intent]

				break
			}
		}
	}

	return intents
}

// phraseTail returns the text following marker up to the next sentence break.
func phraseTail(lowered, marker string) (string, bool) {
	idx := strings.Index(lowered, marker)
	if idx < 0 {
		return "", false
	}

	tail := lowered[idx+len(marker):]
	if cut := strings.IndexAny(tail, ".,!?"); cut >= 0 {
		tail = tail[:cut]
	}

	tail = strings.TrimSpace(tail)

	return tail, tail != ""
}

var clockHintPattern = regexp.MustCompile(`\b(1[0-2]|[1-9])(?::([0-5]\d))?\s*(am|pm)?\b`)

// extractClock finds a spoken time like "at 3", "3:30 pm" and normalizes it
// to "H:MM AM"/"H:MM PM". A bare hour with no meridiem defaults to AM, same
// as the upstream dialogue heuristic.
func extractClock(lowered string) (string, bool) {
	idx := strings.Index(lowered, "at ")
	if idx < 0 {
		return "", false
	}

	match := clockHintPattern.FindStringSubmatch(lowered[idx+3:])
	if match == nil {
		return "", false
	}

	hour := match[1]

	minute := match[2]
	if minute == "" {
		minute = "00"
	}

	meridiem := "AM"
	if match[3] == "pm" || strings.Contains(lowered, "pm") {
		meridiem = "PM"
	}

	return fmt.Sprintf("%s:%s %s", hour, minute, meridiem), true
}

func containsWord(lowered, word string) bool {
	idx := 0

	for {
		found := strings.Index(lowered[idx:], word)
		if found < 0 {
			return false
		}

		found += idx
		before := found == 0 || !isWordChar(lowered[found-1])
		afterIdx := found + len(word)
		after := afterIdx >= len(lowered) || !isWordChar(lowered[afterIdx])

		if before && after {
			return true
		}

		idx = found + len(word)
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
