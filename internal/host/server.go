// internal/host/server.go
package host

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

// Server exposes the bot over HTTP. Inbound activities are posted to
// /api/messages; every activity the turn produces is returned in the
// response body so synchronous channels (and skills hosted by this server)
// can consume the replies directly.
type Server struct {
	adapter     *bot.Adapter
	handler     bot.ActivityHandler
	validator   *ActivityValidator
	turnTimeout time.Duration
	logger      logger.Logger
}

func NewServer(adapter *bot.Adapter, handler bot.ActivityHandler, turnTimeout time.Duration, log logger.Logger) (*Server, error) {
	validator, err := NewActivityValidator()
	if err != nil {
		return nil, err
	}
	return &Server{
		adapter:     adapter,
		handler:     handler,
		validator:   validator,
		turnTimeout: turnTimeout,
		logger:      log.WithFields(map[string]interface{}{"component": "host"}),
	}, nil
}

// Routes registers the bot endpoints on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/messages", s.handleMessages)
	mux.HandleFunc("/healthz", s.handleHealth)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewActivityInvalidError("failed to read request body"))
		return
	}

	if err := s.validator.Validate(body); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewActivityInvalidError(err.Error()))
		return
	}

	var activity models.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewActivityInvalidError(err.Error()))
		return
	}

	ctx := r.Context()
	if s.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.turnTimeout)
		defer cancel()
	}

	sink := newResponseSink()
	if err := s.adapter.ProcessActivity(ctx, &activity, sink, s.handler); err != nil {
		stdErr, ok := err.(*errors.StandardError)
		if !ok {
			stdErr = errors.NewInternalError(err)
		}
		s.writeError(w, statusForError(stdErr), stdErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sink.Collected()); err != nil {
		s.logger.Error("failed to encode turn replies", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, stdErr *errors.StandardError) {
	s.logger.Warn("turn rejected", map[string]interface{}{
		"status": status,
		"code":   string(stdErr.Code),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(stdErr)
}

func statusForError(stdErr *errors.StandardError) int {
	switch stdErr.Code {
	case errors.ErrCodeActivityInvalid, errors.ErrCodeNilTurnContext:
		return http.StatusBadRequest
	case errors.ErrCodeAuthentication, errors.ErrCodeSkillAuthFailed:
		return http.StatusBadGateway
	case errors.ErrCodeModerationTimeout, errors.ErrCodeRecognizerTimeout, errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
