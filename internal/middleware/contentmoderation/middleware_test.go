// internal/middleware/contentmoderation/middleware_test.go
package contentmoderation

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/database"
	commonerrors "bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

type fakeScreener struct {
	calls  int
	result *models.ScreenResult
	err    error
}

func (f *fakeScreener) ScreenText(ctx context.Context, text, language string) (*models.ScreenResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	result := *f.result
	result.OriginalText = text
	return &result, nil
}

type fakeAlerter struct {
	notified []*models.ScreenResult
}

func (f *fakeAlerter) NotifyFlagged(ctx context.Context, activity *models.Activity, result *models.ScreenResult) error {
	f.notified = append(f.notified, result)
	return nil
}

func cleanResult() *models.ScreenResult {
	return &models.ScreenResult{TrackingID: "t-1", Status: "OK"}
}

func flaggedResult() *models.ScreenResult {
	return &models.ScreenResult{
		TrackingID: "t-2",
		Terms:      []models.MatchTerm{{Index: 0, Term: "badword"}},
		Classification: &models.Classification{
			Category3:         models.ClassificationScore{Score: 0.98},
			ReviewRecommended: true,
		},
	}
}

func newMiniredisClient(t *testing.T) *database.RedisClient {
	mr := miniredis.RunT(t)
	return &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func TestOnTurn_StashesScreenResult(t *testing.T) {
	screener := &fakeScreener{result: cleanResult()}
	mw, err := New(screener, nil, nil, &Config{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	var stashed *models.ScreenResult
	handler := func(ctx context.Context, tc *bot.TurnContext) error {
		if v, ok := tc.GetState(models.StateKeyScreenResult); ok {
			stashed = v.(*models.ScreenResult)
		}
		return nil
	}

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), handler, mw)
	require.NoError(t, ta.Send(context.Background(), "hello there"))

	require.NotNil(t, stashed)
	assert.Equal(t, "t-1", stashed.TrackingID)
	assert.Equal(t, "hello there", stashed.OriginalText)
	assert.Equal(t, 1, screener.calls)
}

func TestOnTurn_SkipsNonMessageActivities(t *testing.T) {
	screener := &fakeScreener{result: cleanResult()}
	mw, err := New(screener, nil, nil, &Config{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), nil, mw)

	require.NoError(t, ta.ProcessActivity(context.Background(), &models.Activity{
		Type: models.ActivityTypeConversationUpdate,
	}))
	require.NoError(t, ta.ProcessActivity(context.Background(), &models.Activity{
		Type: models.ActivityTypeMessage,
		Text: "   ",
	}))

	assert.Equal(t, 0, screener.calls)
}

func TestOnTurn_CacheHitSkipsScreener(t *testing.T) {
	screener := &fakeScreener{result: cleanResult()}
	mw, err := New(screener, newMiniredisClient(t), nil, &Config{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), nil, mw)

	require.NoError(t, ta.Send(context.Background(), "same text"))
	require.NoError(t, ta.Send(context.Background(), "same text"))
	require.NoError(t, ta.Send(context.Background(), "different text"))

	assert.Equal(t, 2, screener.calls)
}

func TestOnTurn_CacheFailuresFallThroughToScreener(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := &database.RedisClient{Client: db}

	key := cacheKey("hello")
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte(`{"trackingId":"t-1","originalText":"hello","status":"OK"}`), 0).
		SetErr(assert.AnError)

	screener := &fakeScreener{result: cleanResult()}
	mw, err := New(screener, cache, nil, &Config{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), nil, mw)
	require.NoError(t, ta.Send(context.Background(), "hello"))

	assert.Equal(t, 1, screener.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOnTurn_ScreenErrorFailsTurn(t *testing.T) {
	screener := &fakeScreener{err: commonerrors.NewModerationTimeoutError()}
	mw, err := New(screener, nil, nil, &Config{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	handlerRan := false
	handler := func(ctx context.Context, tc *bot.TurnContext) error {
		handlerRan = true
		return nil
	}

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), handler, mw)

	err = ta.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.False(t, handlerRan)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeModerationTimeout, stdErr.Code)
}

func TestOnTurn_FlaggedContentAlerts(t *testing.T) {
	screener := &fakeScreener{result: flaggedResult()}
	alerter := &fakeAlerter{}
	mw, err := New(screener, nil, alerter, &Config{AlertOnReview: true}, logger.NewTestLogger(t))
	require.NoError(t, err)

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), nil, mw)
	require.NoError(t, ta.Send(context.Background(), "badword here"))

	require.Len(t, alerter.notified, 1)
	assert.True(t, alerter.notified[0].ReviewRecommended())
}

func TestOnTurn_FlaggedWithoutAlertConfigured(t *testing.T) {
	screener := &fakeScreener{result: flaggedResult()}
	alerter := &fakeAlerter{}
	mw, err := New(screener, nil, alerter, &Config{AlertOnReview: false}, logger.NewTestLogger(t))
	require.NoError(t, err)

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), nil, mw)
	require.NoError(t, ta.Send(context.Background(), "badword here"))

	assert.Empty(t, alerter.notified)
}
