// internal/host/sink.go
package host

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"bot-middleware/internal/models"
)

// responseSink collects the activities produced during one turn so the HTTP
// handler can return them in the response body. One sink serves one request.
type responseSink struct {
	mu         sync.Mutex
	activities []*models.Activity
}

func newResponseSink() *responseSink {
	return &responseSink{}
}

func (s *responseSink) Deliver(ctx context.Context, activities []*models.Activity) ([]*models.ResourceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	responses := make([]*models.ResourceResponse, 0, len(activities))
	for _, a := range activities {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		s.activities = append(s.activities, a)
		responses = append(responses, &models.ResourceResponse{ID: a.ID})
	}
	return responses, nil
}

func (s *responseSink) Replace(ctx context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.activities {
		if a.ID == activity.ID {
			s.activities[i] = activity
			return nil
		}
	}
	return nil
}

func (s *responseSink) Remove(ctx context.Context, reference models.ConversationReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.activities {
		if a.ID == reference.ActivityID {
			s.activities = append(s.activities[:i], s.activities[i+1:]...)
			return nil
		}
	}
	return nil
}

// Collected returns the activities delivered during the turn.
func (s *responseSink) Collected() []*models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}
