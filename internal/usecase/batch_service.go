package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/eplhub/crawler/internal/platform/logging"
)

// Exit codes reported by batch entry points.
const (
	ExitOK      = 0
	ExitFailed  = 1
	ExitBadArgs = 2
)

// Notifier delivers a failure alert after a job exhausts its retries.
type Notifier interface {
	Notify(ctx context.Context, job string, attempts int, cause error) error
}

type BatchConfig struct {
	RetryCount   int
	RetryBackoff time.Duration
}

// BatchService runs a job with bounded retries. Every attempt opens a fresh
// store and wraps the job in one transaction, so a failed attempt leaves no
// partial rows and a retry starts clean.
type BatchService struct {
	opener   StoreOpener
	notifier Notifier
	cfg      BatchConfig
	logger   *logging.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewBatchService(opener StoreOpener, notifier Notifier, cfg BatchConfig, logger *logging.Logger) *BatchService {
	if cfg.RetryCount < 1 {
		cfg.RetryCount = 1
	}
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = 0
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchService{
		opener:   opener,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Run executes the named job until it succeeds or retries are exhausted and
// returns a process exit code. Exhaustion fires exactly one alert carrying
// the attempt count and the last error; alert delivery failures never change
// the outcome.
func (s *BatchService) Run(ctx context.Context, jobName string, job JobFunc) int {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= s.cfg.RetryCount; attempt++ {
		attempts = attempt
		err := s.runAttempt(ctx, jobName, job)
		if err == nil {
			s.logger.InfoContext(ctx, "batch job succeeded", "job", jobName, "attempt", attempt)
			return ExitOK
		}
		lastErr = err
		s.logger.WarnContext(ctx, "batch job attempt failed",
			"job", jobName, "attempt", attempt, "max_attempts", s.cfg.RetryCount, "error", err)

		if attempt == s.cfg.RetryCount {
			break
		}
		if err := s.sleep(ctx, time.Duration(attempt)*s.cfg.RetryBackoff); err != nil {
			lastErr = err
			break
		}
	}

	s.logger.ErrorContext(ctx, "batch job exhausted retries",
		"job", jobName, "attempts", attempts, "error", lastErr)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, jobName, attempts, lastErr); err != nil {
			s.logger.ErrorContext(ctx, "failure alert delivery failed", "job", jobName, "error", err)
		}
	}
	return ExitFailed
}

func (s *BatchService) runAttempt(ctx context.Context, jobName string, job JobFunc) error {
	store, err := s.opener(ctx)
	if err != nil {
		return fmt.Errorf("open store for %s: %w", jobName, err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "store close failed", "job", jobName, "error", cerr)
		}
	}()

	return store.WithinTx(ctx, job)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
