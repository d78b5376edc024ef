package telegram

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// UpdatesSource provides updates by long polling. *Client implements it.
type UpdatesSource interface {
	GetUpdates(ctx context.Context, params GetUpdatesParams) ([]Update, error)
}

var _ UpdatesSource = (*Client)(nil)

// Poller feeds updates from getUpdates to a handler until its context is cancelled.
type Poller struct {
	src    UpdatesSource
	handle func(ctx context.Context, u Update) error
	logger *zap.Logger

	timeout        time.Duration
	minBackoff     time.Duration
	maxBackoff     time.Duration
	allowedUpdates []string
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollTimeout sets the long-poll timeout sent to Telegram, 30s by default.
func WithPollTimeout(d time.Duration) PollerOption {
	return func(p *Poller) { p.timeout = d }
}

// WithBackoff sets the delay after the first failed poll and the cap it doubles up to.
func WithBackoff(initial, maxDelay time.Duration) PollerOption {
	return func(p *Poller) { p.minBackoff, p.maxBackoff = initial, maxDelay }
}

// WithPollerLogger sets the logger for failed polls and handler errors.
func WithPollerLogger(logger *zap.Logger) PollerOption {
	return func(p *Poller) { p.logger = logger }
}

// WithAllowedUpdates restricts the update types Telegram delivers.
func WithAllowedUpdates(types ...string) PollerOption {
	return func(p *Poller) { p.allowedUpdates = types }
}

// NewPoller creates a poller that passes every update to handle.
func NewPoller(src UpdatesSource, handle func(ctx context.Context, u Update) error, opts ...PollerOption) *Poller {
	p := &Poller{
		src:        src,
		handle:     handle,
		logger:     zap.NewNop(),
		timeout:    30 * time.Second,
		minBackoff: time.Second,
		maxBackoff: time.Minute,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled and then returns nil. Failed polls are retried
// with exponential backoff, or after the delay Telegram asks for. Handler errors are
// logged and the update is considered consumed.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	var backoff time.Duration

	for ctx.Err() == nil {
		updates, err := p.src.GetUpdates(ctx, GetUpdatesParams{
			Offset:         offset,
			Timeout:        int(p.timeout / time.Second),
			AllowedUpdates: p.allowedUpdates,
		})
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			backoff = p.nextBackoff(backoff)
			delay := backoff
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				delay = apiErr.RetryAfter
			}

			p.logger.Warn("get updates failed", zap.Error(err), zap.Duration("retry_in", delay))
			if !sleep(ctx, delay) {
				break
			}
			continue
		}
		backoff = 0

		for _, u := range updates {
			offset = u.UpdateID + 1
			if err := p.handle(ctx, u); err != nil {
				p.logger.Error("handle update failed", zap.Int64("update_id", u.UpdateID), zap.Error(err))
			}
		}
	}

	return nil
}

func (p *Poller) nextBackoff(prev time.Duration) time.Duration {
	if prev == 0 {
		return p.minBackoff
	}
	return min(prev*2, p.maxBackoff)
}

// sleep waits for d and reports false when ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
