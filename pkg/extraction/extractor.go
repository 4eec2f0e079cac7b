// Package extraction provides the lightweight entity and intent heuristics
// the flow executor runs over each turn. It is deliberately simple and
// replaceable: a deployment with a real NLU service implements the same
// interface and swaps it in.
package extraction

// Extractor turns raw user input into entity slots and intent scores.
type Extractor interface {
	ExtractEntities(text string) map[string]string
	DetectIntents(text string) map[string]float64
}
