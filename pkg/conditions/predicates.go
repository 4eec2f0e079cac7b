package conditions

import (
	"regexp"
	"strings"

	"github.com/voxline/scriptflow/pkg/models"
)

const intentThreshold = 0.6

var wordPattern = regexp.MustCompile(`\b\w+\b`)

var positiveWords = map[string]struct{}{
	"yes": {}, "good": {}, "great": {}, "excellent": {}, "happy": {}, "agree": {}, "correct": {},
}

var negativeWords = map[string]struct{}{
	"no": {}, "bad": {}, "wrong": {}, "incorrect": {}, "disagree": {}, "not": {}, "don't": {},
}

var affirmativeWords = map[string]struct{}{
	"yes": {}, "correct": {}, "right": {}, "sure": {}, "okay": {}, "fine": {}, "agree": {}, "true": {},
}

var negationWords = map[string]struct{}{
	"no": {}, "wrong": {}, "incorrect": {}, "not": {}, "disagree": {}, "false": {},
}

func tokenize(input string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, word := range wordPattern.FindAllString(strings.ToLower(input), -1) {
		words[word] = struct{}{}
	}

	return words
}

func countMatches(words, lexicon map[string]struct{}) int {
	count := 0

	for word := range words {
		if _, ok := lexicon[word]; ok {
			count++
		}
	}

	return count
}

// evaluateEntityComplete checks that the required entity slots have been
// filled during the conversation so far.
func evaluateEntityComplete(condition *models.EdgeCondition, _ string, turnCtx *models.TurnContext) bool {
	required := condition.EntityNames()
	if len(required) == 0 {
		return false
	}

	if condition.EffectiveOperator() == models.OperatorAllPresent {
		for _, name := range required {
			if _, ok := turnCtx.Entities[name]; !ok {
				return false
			}
		}

		return true
	}

	for _, name := range required {
		if _, ok := turnCtx.Entities[name]; ok {
			return true
		}
	}

	return false
}

// evaluateIntent requires the target intent to clear the confidence threshold
// and to be the strict arg-max of this turn's intents. A tie at the top means
// the detector was ambiguous, so equals fails rather than guessing.
func evaluateIntent(condition *models.EdgeCondition, _ string, turnCtx *models.TurnContext) bool {
	target := condition.StringValue()
	if target == "" {
		return false
	}

	score := turnCtx.Intents[target]

	switch condition.EffectiveOperator() {
	case models.OperatorNotEquals:
		return score < intentThreshold
	case models.OperatorEquals:
		if score < intentThreshold {
			return false
		}

		for label, other := range turnCtx.Intents {
			if label != target && other >= score {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// evaluateSentiment runs naive keyword counting over the turn input: more
// positive words than negative reads as positive, anything else (including a
// tie) as not positive.
func evaluateSentiment(condition *models.EdgeCondition, turnInput string, _ *models.TurnContext) bool {
	wantPositive, ok := condition.BoolValue()
	if !ok || condition.EffectiveOperator() != models.OperatorEquals {
		return false
	}

	words := tokenize(turnInput)
	isPositive := countMatches(words, positiveWords) > countMatches(words, negativeWords)

	return isPositive == wantPositive
}

// evaluateConfirmation is stricter than sentiment: the input must contain an
// affirmative keyword and no negation at all ("yes, but not Tuesday" is not a
// confirmation).
func evaluateConfirmation(condition *models.EdgeCondition, turnInput string, _ *models.TurnContext) bool {
	wantConfirmed, ok := condition.BoolValue()
	if !ok {
		return false
	}

	words := tokenize(turnInput)
	confirmed := countMatches(words, affirmativeWords) > 0 && countMatches(words, negationWords) == 0

	return confirmed == wantConfirmed
}

// evaluateAvailability is a stand-in for a real calendar check performed by an
// external collaborator: it keys off the literal word "available" in the turn
// input and assumes availability when the caller never mentions it.
func evaluateAvailability(condition *models.EdgeCondition, turnInput string, _ *models.TurnContext) bool {
	want, ok := condition.BoolValue()
	if !ok {
		return false
	}

	lowered := strings.ToLower(turnInput)
	if strings.Contains(lowered, "available") {
		available := !strings.Contains(lowered, "not available")

		return available == want
	}

	return want
}

// evaluateTimeRange parses the collected "time" entity and checks it against
// the condition's [start, end] clock range, bounds inclusive. Any parse
// failure, on the entity or on the range itself, evaluates to false.
func evaluateTimeRange(condition *models.EdgeCondition, _ string, turnCtx *models.TurnContext) bool {
	entityValue, ok := turnCtx.Entities["time"]
	if !ok {
		return false
	}

	minutes, ok := parseClockTime(entityValue)
	if !ok {
		return false
	}

	startRaw, endRaw, ok := condition.RangeValue()
	if !ok {
		return false
	}

	start, ok := parseClockTime(startRaw)
	if !ok {
		return false
	}

	end, ok := parseClockTime(endRaw)
	if !ok {
		return false
	}

	inRange := minutes >= start && minutes <= end

	if condition.EffectiveOperator() == models.OperatorNotInRange {
		return !inRange
	}

	return inRange
}
