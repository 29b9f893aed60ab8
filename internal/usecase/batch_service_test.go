package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubStore struct {
	runErr   error
	closed   int
	withinTx int
}

func (s *stubStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	s.withinTx++
	if s.runErr != nil {
		return s.runErr
	}
	return fn(ctx, Repositories{})
}

func (s *stubStore) Close() error {
	s.closed++
	return nil
}

type stubNotifier struct {
	calls    int
	job      string
	attempts int
	cause    error
}

func (n *stubNotifier) Notify(_ context.Context, job string, attempts int, cause error) error {
	n.calls++
	n.job = job
	n.attempts = attempts
	n.cause = cause
	return nil
}

func newTestBatchService(store *stubStore, notifier *stubNotifier, retries int) (*BatchService, *int) {
	opens := 0
	opener := func(context.Context) (Store, error) {
		opens++
		return store, nil
	}
	service := NewBatchService(opener, notifier, BatchConfig{RetryCount: retries, RetryBackoff: time.Millisecond}, nil)
	service.sleep = func(context.Context, time.Duration) error { return nil }
	return service, &opens
}

func TestBatchRun_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	notifier := &stubNotifier{}
	service, opens := newTestBatchService(store, notifier, 3)

	code := service.Run(context.Background(), "daily-update", func(context.Context, Repositories) error {
		return nil
	})
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if *opens != 1 || store.closed != 1 {
		t.Fatalf("expected one open/close, got opens=%d closed=%d", *opens, store.closed)
	}
	if notifier.calls != 0 {
		t.Fatalf("no alert expected on success")
	}
}

func TestBatchRun_RecoversBeforeExhaustion(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	notifier := &stubNotifier{}
	service, opens := newTestBatchService(store, notifier, 3)

	failures := 2
	code := service.Run(context.Background(), "daily-update", func(context.Context, Repositories) error {
		if failures > 0 {
			failures--
			return errors.New("source flapping")
		}
		return nil
	})
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if *opens != 3 || store.closed != 3 {
		t.Fatalf("expected a fresh store per attempt, got opens=%d closed=%d", *opens, store.closed)
	}
	if notifier.calls != 0 {
		t.Fatalf("recovered run must not alert")
	}
}

func TestBatchRun_ExhaustionAlertsOnce(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	notifier := &stubNotifier{}
	service, opens := newTestBatchService(store, notifier, 3)

	cause := errors.New("upstream down")
	code := service.Run(context.Background(), "weekly-sync", func(context.Context, Repositories) error {
		return cause
	})
	if code != ExitFailed {
		t.Fatalf("exit code = %d", code)
	}
	if *opens != 3 {
		t.Fatalf("expected 3 attempts, got %d", *opens)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected exactly one alert, got %d", notifier.calls)
	}
	if notifier.job != "weekly-sync" || notifier.attempts != 3 {
		t.Fatalf("unexpected alert: job=%q attempts=%d", notifier.job, notifier.attempts)
	}
	if !errors.Is(notifier.cause, cause) {
		t.Fatalf("alert cause = %v", notifier.cause)
	}
}

func TestBatchRun_OpenFailureCountsAsAttempt(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	opens := 0
	opener := func(context.Context) (Store, error) {
		opens++
		return nil, errors.New("connection refused")
	}
	service := NewBatchService(opener, notifier, BatchConfig{RetryCount: 2}, nil)
	service.sleep = func(context.Context, time.Duration) error { return nil }

	code := service.Run(context.Background(), "daily-update", func(context.Context, Repositories) error {
		t.Fatal("job must not run without a store")
		return nil
	})
	if code != ExitFailed {
		t.Fatalf("exit code = %d", code)
	}
	if opens != 2 || notifier.attempts != 2 {
		t.Fatalf("opens=%d attempts=%d", opens, notifier.attempts)
	}
}

func TestNewBatchService_ClampsRetryCount(t *testing.T) {
	t.Parallel()

	store := &stubStore{runErr: errors.New("boom")}
	notifier := &stubNotifier{}
	opener := func(context.Context) (Store, error) { return store, nil }
	service := NewBatchService(opener, notifier, BatchConfig{RetryCount: 0}, nil)
	service.sleep = func(context.Context, time.Duration) error { return nil }

	if code := service.Run(context.Background(), "daily-update", func(context.Context, Repositories) error { return nil }); code != ExitFailed {
		t.Fatalf("exit code = %d", code)
	}
	if store.withinTx != 1 || notifier.attempts != 1 {
		t.Fatalf("expected single attempt, got tx=%d attempts=%d", store.withinTx, notifier.attempts)
	}
}
