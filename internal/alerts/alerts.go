// internal/alerts/alerts.go
package alerts

import (
	"context"
	"fmt"
	"strings"

	"bot-middleware/internal/common/aws"
	"bot-middleware/internal/common/config"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

// Notifier fans flagged-content alerts out to the configured channels: an SNS
// topic for operational paging and an SES email to the review inbox. A failed
// channel is logged and the remaining channels still run.
type Notifier struct {
	sns    *aws.SNSClient
	ses    *aws.SESClient
	config *config.NotificationConfig
	logger logger.Logger
}

func NewNotifier(ctx context.Context, cfg *config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "alerts"}),
	}

	if cfg.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create SNS client: %w", err)
		}
		n.sns = snsClient
	}

	if cfg.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create SES client: %w", err)
		}
		n.ses = sesClient
	}

	return n, nil
}

// NotifyFlagged sends the flagged-content alert through every enabled channel.
func (n *Notifier) NotifyFlagged(ctx context.Context, activity *models.Activity, result *models.ScreenResult) error {
	subject := fmt.Sprintf("Content flagged for review in conversation %s", activity.Conversation.ID)
	body := formatAlertBody(activity, result)

	var lastErr error

	if n.sns != nil {
		if err := n.sns.PublishAlert(ctx, n.config.SNS.TopicARN, subject, body); err != nil {
			n.logger.Error("failed to publish SNS alert", map[string]interface{}{
				"topicArn": n.config.SNS.TopicARN,
				"error":    err.Error(),
			})
			lastErr = err
		}
	}

	if n.ses != nil {
		if err := n.ses.SendAlertEmail(ctx, n.config.SES.FromEmail, n.config.SES.ReviewInbox, subject, body); err != nil {
			n.logger.Error("failed to send review email", map[string]interface{}{
				"inbox": n.config.SES.ReviewInbox,
				"error": err.Error(),
			})
			lastErr = err
		}
	}

	return lastErr
}

func formatAlertBody(activity *models.Activity, result *models.ScreenResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Conversation: %s\n", activity.Conversation.ID)
	fmt.Fprintf(&b, "Activity:     %s\n", activity.ID)
	fmt.Fprintf(&b, "Channel:      %s\n", activity.ChannelID)
	fmt.Fprintf(&b, "From:         %s\n", activity.From.ID)
	fmt.Fprintf(&b, "Tracking ID:  %s\n", result.TrackingID)

	if len(result.Terms) > 0 {
		terms := make([]string, 0, len(result.Terms))
		for _, term := range result.Terms {
			terms = append(terms, term.Term)
		}
		fmt.Fprintf(&b, "Terms:        %s\n", strings.Join(terms, ", "))
	}

	if result.Classification != nil {
		fmt.Fprintf(&b, "Scores:       category1=%.2f category2=%.2f category3=%.2f\n",
			result.Classification.Category1.Score,
			result.Classification.Category2.Score,
			result.Classification.Category3.Score)
	}

	if result.HasPII() {
		b.WriteString("PII:          detected\n")
	}

	return b.String()
}
