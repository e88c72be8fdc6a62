package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fibermade/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Paginated fetch with retry
// ---------------------------------------------------------------------------

// Paginator walks a cursor-paginated remote connection, retrying each page
// on rate-limit responses with a doubling delay. All paginating call sites
// in the engine (bulk product pages, collection pages, collection-product
// pages) go through this one helper so the attempt loop exists exactly once.
type Paginator struct {
	runner   integration.QueryRunner
	pageSize int
	attempts int
	delay    time.Duration
	logger   *zap.Logger
}

func NewPaginator(runner integration.QueryRunner, pageSize, attempts int, delay time.Duration, logger *zap.Logger) *Paginator {
	if pageSize < 1 {
		pageSize = 50
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Paginator{
		runner:   runner,
		pageSize: pageSize,
		attempts: attempts,
		delay:    delay,
		logger:   logger,
	}
}

// pageFn consumes one page of raw response data and returns the connection's
// page info so the Paginator can advance the cursor
type pageFn func(data json.RawMessage) (pageInfoPayload, error)

// forEach fetches pages until the connection is exhausted, calling fn once
// per page. It returns the cursor of the last fully processed page along
// with any error, so callers can report how far a failed walk got.
func (p *Paginator) forEach(ctx context.Context, query string, vars map[string]any, fn pageFn) (string, error) {
	cursor := ""
	for {
		pageVars := make(map[string]any, len(vars)+2)
		for k, v := range vars {
			pageVars[k] = v
		}
		pageVars["first"] = p.pageSize
		if cursor != "" {
			pageVars["after"] = cursor
		}

		data, err := p.runWithRetry(ctx, query, pageVars)
		if err != nil {
			return cursor, err
		}

		info, err := fn(data)
		if err != nil {
			return cursor, err
		}

		if !info.HasNextPage {
			return info.EndCursor, nil
		}
		cursor = info.EndCursor
	}
}

// runWithRetry executes one query, retrying on rate-limit errors with a
// doubling delay up to the attempt cap. Any other error returns immediately.
func (p *Paginator) runWithRetry(ctx context.Context, query string, vars map[string]any) (json.RawMessage, error) {
	delay := p.delay
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		data, err := p.runner.Run(ctx, query, vars)
		if err == nil {
			return data, nil
		}
		if !integration.IsRateLimited(err) {
			return nil, err
		}

		lastErr = err
		p.logger.Warn("Remote rate limit hit, backing off",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.attempts),
			zap.Duration("delay", delay))

		if attempt == p.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, fmt.Errorf("rate limit retries exhausted after %d attempts: %w", p.attempts, lastErr)
}
