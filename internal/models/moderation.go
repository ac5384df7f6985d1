// internal/models/moderation.go
package models

// MatchTerm is one profanity/blocklist term hit inside screened text.
type MatchTerm struct {
	Index  int    `json:"index"`
	ListID int    `json:"listId,omitempty"`
	Term   string `json:"term"`
}

// PIIEntry is one detected piece of personal data with its offset.
type PIIEntry struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// PII groups the personal data detected in screened text.
type PII struct {
	Email   []PIIEntry `json:"email,omitempty"`
	IPA     []PIIEntry `json:"ipa,omitempty"`
	Phone   []PIIEntry `json:"phone,omitempty"`
	Address []PIIEntry `json:"address,omitempty"`
}

// ClassificationScore is one category confidence from the classifier.
type ClassificationScore struct {
	Score float64 `json:"score"`
}

// Classification holds the category scores for screened text.
// Category1 is sexually explicit, Category2 is suggestive, Category3 is
// offensive language.
type Classification struct {
	Category1         ClassificationScore `json:"category1"`
	Category2         ClassificationScore `json:"category2"`
	Category3         ClassificationScore `json:"category3"`
	ReviewRecommended bool                `json:"reviewRecommended"`
}

// ScreenResult is the moderation verdict for one piece of text.
type ScreenResult struct {
	TrackingID        string          `json:"trackingId"`
	Language          string          `json:"language,omitempty"`
	OriginalText      string          `json:"originalText"`
	NormalizedText    string          `json:"normalizedText,omitempty"`
	AutoCorrectedText string          `json:"autoCorrectedText,omitempty"`
	Terms             []MatchTerm     `json:"terms,omitempty"`
	PII               *PII            `json:"pii,omitempty"`
	Classification    *Classification `json:"classification,omitempty"`
	Status            string          `json:"status,omitempty"`
}

// ReviewRecommended reports whether the result should be routed to a human
// reviewer: either the classifier asked for review or a blocked term matched.
func (r *ScreenResult) ReviewRecommended() bool {
	if r == nil {
		return false
	}
	if r.Classification != nil && r.Classification.ReviewRecommended {
		return true
	}
	return len(r.Terms) > 0
}

// HasPII reports whether any personal data was detected.
func (r *ScreenResult) HasPII() bool {
	if r == nil || r.PII == nil {
		return false
	}
	return len(r.PII.Email)+len(r.PII.IPA)+len(r.PII.Phone)+len(r.PII.Address) > 0
}
