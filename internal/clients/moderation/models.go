// internal/clients/moderation/models.go
package moderation

import (
	"time"

	"bot-middleware/internal/models"
)

// Config holds settings for the moderation REST client.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	AutoCorrect bool
	PII         bool
	Classify    bool
	Language    string
}

// screenResponse is the wire shape returned by the ProcessText/Screen call.
type screenResponse struct {
	TrackingID        string `json:"TrackingId"`
	Language          string `json:"Language"`
	NormalizedText    string `json:"NormalizedText"`
	AutoCorrectedText string `json:"AutoCorrectedText"`
	Terms             []struct {
		Index  int    `json:"Index"`
		ListID int    `json:"ListId"`
		Term   string `json:"Term"`
	} `json:"Terms"`
	PII *struct {
		Email []struct {
			Detected string `json:"Detected"`
			Index    int    `json:"Index"`
		} `json:"Email"`
		IPA []struct {
			SubType string `json:"SubType"`
			Text    string `json:"Text"`
			Index   int    `json:"Index"`
		} `json:"IPA"`
		Phone []struct {
			CountryCode string `json:"CountryCode"`
			Text        string `json:"Text"`
			Index       int    `json:"Index"`
		} `json:"Phone"`
		Address []struct {
			Text  string `json:"Text"`
			Index int    `json:"Index"`
		} `json:"Address"`
	} `json:"PII"`
	Classification *struct {
		Category1         struct{ Score float64 } `json:"Category1"`
		Category2         struct{ Score float64 } `json:"Category2"`
		Category3         struct{ Score float64 } `json:"Category3"`
		ReviewRecommended bool                    `json:"ReviewRecommended"`
	} `json:"Classification"`
	Status struct {
		Code        int    `json:"Code"`
		Description string `json:"Description"`
	} `json:"Status"`
}

// toScreenResult maps the wire shape to the shared model.
func (r *screenResponse) toScreenResult(originalText string) *models.ScreenResult {
	result := &models.ScreenResult{
		TrackingID:        r.TrackingID,
		Language:          r.Language,
		OriginalText:      originalText,
		NormalizedText:    r.NormalizedText,
		AutoCorrectedText: r.AutoCorrectedText,
		Status:            r.Status.Description,
	}

	for _, term := range r.Terms {
		result.Terms = append(result.Terms, models.MatchTerm{
			Index:  term.Index,
			ListID: term.ListID,
			Term:   term.Term,
		})
	}

	if r.PII != nil {
		pii := &models.PII{}
		for _, e := range r.PII.Email {
			pii.Email = append(pii.Email, models.PIIEntry{Text: e.Detected, Index: e.Index})
		}
		for _, e := range r.PII.IPA {
			pii.IPA = append(pii.IPA, models.PIIEntry{Text: e.Text, Index: e.Index})
		}
		for _, e := range r.PII.Phone {
			pii.Phone = append(pii.Phone, models.PIIEntry{Text: e.Text, Index: e.Index})
		}
		for _, e := range r.PII.Address {
			pii.Address = append(pii.Address, models.PIIEntry{Text: e.Text, Index: e.Index})
		}
		result.PII = pii
	}

	if r.Classification != nil {
		result.Classification = &models.Classification{
			Category1:         models.ClassificationScore{Score: r.Classification.Category1.Score},
			Category2:         models.ClassificationScore{Score: r.Classification.Category2.Score},
			Category3:         models.ClassificationScore{Score: r.Classification.Category3.Score},
			ReviewRecommended: r.Classification.ReviewRecommended,
		}
	}

	return result
}
