package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/integration"
)

const testPageQuery = `query { things(first: $first, after: $after) { } }`

func rawPage(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestPaginatorWalksAllPages(t *testing.T) {
	runner := new(MockQueryRunner)
	p := NewPaginator(runner, 2, 3, time.Millisecond, zap.NewNop())
	ctx := context.Background()

	// Setup expectations: two pages, the second requested with the cursor of the first
	runner.On("Run", ctx, testPageQuery, mock.MatchedBy(func(vars map[string]any) bool {
		_, hasCursor := vars["after"]
		return vars["first"] == 2 && !hasCursor
	})).Return(rawPage(`{"page":1}`), nil).Once()
	runner.On("Run", ctx, testPageQuery, mock.MatchedBy(func(vars map[string]any) bool {
		return vars["after"] == "c1"
	})).Return(rawPage(`{"page":2}`), nil).Once()

	pages := 0
	cursor, err := p.forEach(ctx, testPageQuery, nil, func(data json.RawMessage) (pageInfoPayload, error) {
		pages++
		if pages == 1 {
			return pageInfoPayload{HasNextPage: true, EndCursor: "c1"}, nil
		}
		return pageInfoPayload{HasNextPage: false, EndCursor: "c2"}, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, pages)
	assert.Equal(t, "c2", cursor)
	runner.AssertExpectations(t)
}

func TestPaginatorRetriesOnRateLimit(t *testing.T) {
	runner := new(MockQueryRunner)
	p := NewPaginator(runner, 10, 3, time.Millisecond, zap.NewNop())
	ctx := context.Background()

	throttled := &integration.RequestError{StatusCode: 429, Err: errors.New("throttled")}
	runner.On("Run", ctx, testPageQuery, mock.Anything).Return(nil, throttled).Twice()
	runner.On("Run", ctx, testPageQuery, mock.Anything).Return(rawPage(`{}`), nil).Once()

	pages := 0
	_, err := p.forEach(ctx, testPageQuery, nil, func(data json.RawMessage) (pageInfoPayload, error) {
		pages++
		return pageInfoPayload{}, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, pages)
	runner.AssertNumberOfCalls(t, "Run", 3)
}

func TestPaginatorExhaustsRetryBudget(t *testing.T) {
	runner := new(MockQueryRunner)
	p := NewPaginator(runner, 10, 2, time.Millisecond, zap.NewNop())
	ctx := context.Background()

	throttled := &integration.RequestError{StatusCode: 429, Err: errors.New("throttled")}
	runner.On("Run", ctx, testPageQuery, mock.Anything).Return(nil, throttled)

	_, err := p.forEach(ctx, testPageQuery, nil, func(data json.RawMessage) (pageInfoPayload, error) {
		t.Fatal("page fn should not run")
		return pageInfoPayload{}, nil
	})

	assert.Error(t, err)
	assert.True(t, integration.IsRateLimited(err))
	assert.Contains(t, err.Error(), "retries exhausted")
	runner.AssertNumberOfCalls(t, "Run", 2)
}

func TestPaginatorDoesNotRetryOtherErrors(t *testing.T) {
	runner := new(MockQueryRunner)
	p := NewPaginator(runner, 10, 3, time.Millisecond, zap.NewNop())
	ctx := context.Background()

	fatal := &integration.RequestError{StatusCode: 500, Err: errors.New("boom")}
	runner.On("Run", ctx, testPageQuery, mock.Anything).Return(nil, fatal)

	cursor, err := p.forEach(ctx, testPageQuery, nil, func(data json.RawMessage) (pageInfoPayload, error) {
		return pageInfoPayload{}, nil
	})

	assert.Error(t, err)
	assert.Equal(t, "", cursor)
	runner.AssertNumberOfCalls(t, "Run", 1)
}

func TestPaginatorReportsLastGoodCursorOnFailure(t *testing.T) {
	runner := new(MockQueryRunner)
	p := NewPaginator(runner, 10, 1, time.Millisecond, zap.NewNop())
	ctx := context.Background()

	runner.On("Run", ctx, testPageQuery, mock.MatchedBy(func(vars map[string]any) bool {
		_, hasCursor := vars["after"]
		return !hasCursor
	})).Return(rawPage(`{"page":1}`), nil).Once()
	runner.On("Run", ctx, testPageQuery, mock.MatchedBy(func(vars map[string]any) bool {
		return vars["after"] == "c1"
	})).Return(nil, &integration.RequestError{StatusCode: 500, Err: errors.New("boom")}).Once()

	cursor, err := p.forEach(ctx, testPageQuery, nil, func(data json.RawMessage) (pageInfoPayload, error) {
		return pageInfoPayload{HasNextPage: true, EndCursor: "c1"}, nil
	})

	assert.Error(t, err)
	assert.Equal(t, "c1", cursor)
}
