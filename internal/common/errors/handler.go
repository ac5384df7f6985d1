// internal/common/errors/handler.go
package errors

// TurnErrorHandler normalizes and logs errors surfaced by the turn pipeline.
// It never recovers: per the pipeline contract, errors propagate to the host
// after being recorded here.
type TurnErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewTurnErrorHandler(logger Logger) *TurnErrorHandler {
	return &TurnErrorHandler{logger: logger}
}

// HandleTurnError normalizes err to a StandardError, logs it with turn
// context, and returns the normalized error for the host to propagate.
func (h *TurnErrorHandler) HandleTurnError(conversationID, activityID string, err error) *StandardError {
	stdErr := h.normalizeError(err)

	h.logger.Error("turn failed", map[string]interface{}{
		"conversationId": conversationID,
		"activityId":     activityID,
		"errorCode":      string(stdErr.Code),
		"errorMessage":   stdErr.Message,
		"errorDetails":   stdErr.Details,
		"retryable":      stdErr.Retryable,
	})

	return stdErr
}

// normalizeError ensures we always have a StandardError
func (h *TurnErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
