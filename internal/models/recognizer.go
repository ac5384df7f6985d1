// internal/models/recognizer.go
package models

// IntentScore is the confidence the recognizer assigned to one intent.
type IntentScore struct {
	Score float64 `json:"score"`
}

// Sentiment is the recognizer's sentiment verdict for an utterance.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RecognizerResult holds the prediction returned for one utterance.
type RecognizerResult struct {
	Text        string                 `json:"text"`
	AlteredText string                 `json:"alteredText,omitempty"`
	Intents     map[string]IntentScore `json:"intents"`
	Sentiment   *Sentiment             `json:"sentiment,omitempty"`
}

// TopIntent returns the highest scoring intent and its score.
// An empty result yields ("", 0).
func (r *RecognizerResult) TopIntent() (string, float64) {
	name := ""
	score := 0.0
	for intent, s := range r.Intents {
		if s.Score > score || name == "" {
			name = intent
			score = s.Score
		}
	}
	return name, score
}
