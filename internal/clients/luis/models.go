// internal/clients/luis/models.go
package luis

import (
	"time"

	"bot-middleware/internal/models"
)

// Config holds settings for the recognizer client.
type Config struct {
	Endpoint string
	AppID    string
	APIKey   string
	Timeout  time.Duration
}

// predictionResponse is the wire shape of a LUIS v2 prediction.
type predictionResponse struct {
	Query            string `json:"query"`
	AlteredQuery     string `json:"alteredQuery"`
	TopScoringIntent struct {
		Intent string  `json:"intent"`
		Score  float64 `json:"score"`
	} `json:"topScoringIntent"`
	Intents []struct {
		Intent string  `json:"intent"`
		Score  float64 `json:"score"`
	} `json:"intents"`
	SentimentAnalysis *struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"sentimentAnalysis"`
}

// toRecognizerResult maps the wire shape to the shared model.
func (r *predictionResponse) toRecognizerResult() *models.RecognizerResult {
	result := &models.RecognizerResult{
		Text:        r.Query,
		AlteredText: r.AlteredQuery,
		Intents:     make(map[string]models.IntentScore, len(r.Intents)),
	}

	for _, intent := range r.Intents {
		result.Intents[intent.Intent] = models.IntentScore{Score: intent.Score}
	}
	// The top scoring intent is authoritative even when the verbose list is
	// missing or truncated.
	if r.TopScoringIntent.Intent != "" {
		result.Intents[r.TopScoringIntent.Intent] = models.IntentScore{Score: r.TopScoringIntent.Score}
	}

	if r.SentimentAnalysis != nil {
		result.Sentiment = &models.Sentiment{
			Label: r.SentimentAnalysis.Label,
			Score: r.SentimentAnalysis.Score,
		}
	}

	return result
}
