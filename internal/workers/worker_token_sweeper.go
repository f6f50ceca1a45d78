package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
)

// defaultSweepInterval is used when no interval is configured.
const defaultSweepInterval = time.Hour

// TokenStore is the slice of the user repository the sweeper needs.
type TokenStore interface {
	// ClearExpiredTokens erases verification and reset token hashes whose
	// expiry precedes now, and reports how many rows were touched.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenSweeper periodically erases expired one-time token hashes from the
// users table. Expired tokens are already rejected on use; the sweep keeps
// dead hashes from accumulating in storage.
type TokenSweeper struct {
	store    TokenStore
	interval time.Duration
	logger   *logger.Logger
}

// NewTokenSweeper constructs a sweeper running at the given interval.
// A non-positive interval falls back to [defaultSweepInterval].
func NewTokenSweeper(store TokenStore, interval time.Duration, log *logger.Logger) *TokenSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &TokenSweeper{
		store:    store,
		interval: interval,
		logger:   log,
	}
}

// Run starts the sweep loop in a background goroutine and returns.
func (s *TokenSweeper) Run() {
	s.logger.Info().Dur("interval", s.interval).Msg("starting one-time token sweeper")
	go s.loop()
}

func (s *TokenSweeper) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		s.Sweep(context.Background())
	}
}

// Sweep performs one clearing pass. Failures are logged and swallowed; the
// next tick retries.
func (s *TokenSweeper) Sweep(ctx context.Context) {
	cleared, err := s.store.ClearExpiredTokens(ctx, time.Now())
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "*TokenSweeper.Sweep").Msg("token sweep failed")
		return
	}
	if cleared > 0 {
		s.logger.Info().Int64("cleared", cleared).Msg("cleared expired one-time tokens")
	}
}
