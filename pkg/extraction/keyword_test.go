package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEntities_NameAndReason(t *testing.T) {
	extractor := NewKeywordExtractor()

	entities := extractor.ExtractEntities("Hi, my name is Jordan. I need an appointment for a checkup.")

	assert.Equal(t, "jordan", entities["name"])
	assert.Equal(t, "a checkup", entities["reason"])
}

func TestExtractEntities_DateAndTime(t *testing.T) {
	extractor := NewKeywordExtractor()

	entities := extractor.ExtractEntities("Can you book me on Tuesday at 3:30 pm?")

	assert.Equal(t, "tuesday", entities["date"])
	assert.Equal(t, "3:30 PM", entities["time"])
}

func TestExtractEntities_BareHourDefaultsToMorning(t *testing.T) {
	extractor := NewKeywordExtractor()

	entities := extractor.ExtractEntities("see you at 9 on monday")

	assert.Equal(t, "9:00 AM", entities["time"])
}

func TestExtractEntities_Email(t *testing.T) {
	extractor := NewKeywordExtractor()

	entities := extractor.ExtractEntities("My email is pat.doe+test@example.org")

	assert.Equal(t, "pat.doe+test@example.org", entities["email"])
	assert.Equal(t, "email", entities["contact_method"])
	assert.Equal(t, "pat.doe+test@example.org", entities["contact_info"])
}

func TestExtractEntities_Phone(t *testing.T) {
	extractor := NewKeywordExtractor()

	entities := extractor.ExtractEntities("you can reach my phone at 555-123-4567")

	assert.Equal(t, "555-123-4567", entities["phone"])
	assert.Equal(t, "phone", entities["contact_method"])
}

func TestExtractEntities_NothingFound(t *testing.T) {
	extractor := NewKeywordExtractor()

	entities := extractor.ExtractEntities("hello there")

	assert.Empty(t, entities)
}

func TestDetectIntents(t *testing.T) {
	extractor := NewKeywordExtractor()

	tests := []struct {
		name     string
		input    string
		dominant string
		score    float64
	}{
		{"schedule", "I'd like to book an appointment", "schedule", 0.8},
		{"reschedule", "can we change it to another day", "reschedule", 0.8},
		{"cancel", "cancel it, nevermind", "cancel", 0.8},
		{"confirm", "yes that's correct", "confirm", 0.9},
		{"deny", "no, that's wrong", "deny", 0.9},
		{"billing", "there's a weird charge on my invoice", "billing", 0.8},
		{"technical", "the app keeps showing an error", "technical", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intents := extractor.DetectIntents(tt.input)

			require.Contains(t, intents, tt.dominant)
			assert.InEpsilon(t, tt.score, intents[tt.dominant], 0.001)
		})
	}
}

func TestDetectIntents_AllLabelsAlwaysPresent(t *testing.T) {
	extractor := NewKeywordExtractor()

	intents := extractor.DetectIntents("nothing relevant here")

	assert.Len(t, intents, 7)

	for label, score := range intents {
		assert.Zero(t, score, "intent %s should be zero", label)
	}
}

func TestDetectIntents_SubstringDoesNotMatch(t *testing.T) {
	extractor := NewKeywordExtractor()

	// "notably" contains "not" but is not the word "not".
	intents := extractor.DetectIntents("notably quiet today")

	assert.Zero(t, intents["deny"])
}
