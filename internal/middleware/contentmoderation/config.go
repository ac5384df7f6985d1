// internal/middleware/contentmoderation/config.go
package contentmoderation

import "time"

// Config holds settings for the content moderation middleware.
type Config struct {
	// Language is passed to the screening API. Empty means the client's
	// configured default.
	Language string

	// CacheTTL bounds how long a screening verdict is reused for identical
	// text. Zero disables expiry.
	CacheTTL time.Duration

	// AlertOnReview routes flagged results to the configured alerter.
	AlertOnReview bool
}
