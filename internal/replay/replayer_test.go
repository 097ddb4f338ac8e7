package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ahoin001/Soma-sub005/internal/adapters/connectivity"
	"github.com/ahoin001/Soma-sub005/internal/domain"
	"github.com/ahoin001/Soma-sub005/internal/queue"
)

// memStore is a minimal in-memory MutationStore for replay tests.
type memStore struct {
	mu         sync.Mutex
	seq        int
	records    []domain.PendingMutation
	countErr   error
	countCalls int
}

func (s *memStore) Append(ctx context.Context, kind domain.Kind, payload json.RawMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("m-%d", s.seq)
	s.records = append(s.records, domain.PendingMutation{ID: id, Kind: kind, Payload: payload, CreatedAt: time.Now()})
	return id, nil
}

func (s *memStore) ListAll(ctx context.Context) ([]domain.PendingMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PendingMutation(nil), s.records...), nil
}

func (s *memStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.records), nil
}

func (s *memStore) setCountErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countErr = err
}

func (s *memStore) countCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countCalls
}

func (s *memStore) UpdateRetry(ctx context.Context, id string, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].RetryCount++
			s.records[i].LastError = errMsg
		}
	}
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// recordingObserver captures observer callbacks.
type recordingObserver struct {
	mu       sync.Mutex
	runs     []domain.RunResult
	pending  []int
	progress [][2]int
	runCh    chan domain.RunResult
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{runCh: make(chan domain.RunResult, 8)}
}

func (o *recordingObserver) OnProgress(completed, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, [2]int{completed, total})
}

func (o *recordingObserver) OnRunComplete(result domain.RunResult) {
	o.mu.Lock()
	o.runs = append(o.runs, result)
	o.mu.Unlock()
	o.runCh <- result
}

func (o *recordingObserver) OnPendingCount(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, count)
}

func (o *recordingObserver) runCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.runs)
}

func (o *recordingObserver) pendingCounts() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.pending...)
}

func TestReplayer_TriggersOncePerTransition(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memStore{}
	registry := queue.NewRegistry()

	var handled []string
	var mu sync.Mutex
	registry.Register(domain.KindAddFoodLog, func(ctx context.Context, payload json.RawMessage) error {
		mu.Lock()
		handled = append(handled, string(payload))
		mu.Unlock()
		return nil
	})

	if _, err := store.Append(ctx, domain.KindAddFoodLog, json.RawMessage(`"a"`)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Append(ctx, domain.KindAddFoodLog, json.RawMessage(`"b"`)); err != nil {
		t.Fatal(err)
	}

	monitor := connectivity.NewManual(false)
	observer := newRecordingObserver()
	processor := queue.NewProcessor(store, registry, 3, nil)
	r := NewReplayer(processor, monitor, observer, nil, Config{PollInterval: time.Hour})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	monitor.SetOnline(true)

	select {
	case result := <-observer.runCh:
		if result.Processed != 2 {
			t.Errorf("processed = %d, want 2", result.Processed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no run after offline->online transition")
	}

	mu.Lock()
	if len(handled) != 2 || handled[0] != `"a"` || handled[1] != `"b"` {
		t.Errorf("handled = %v, want [\"a\" \"b\"]", handled)
	}
	mu.Unlock()

	// A second offline->online transition with an empty queue must not
	// trigger another run.
	monitor.SetOnline(false)
	monitor.SetOnline(true)

	select {
	case result := <-observer.runCh:
		t.Fatalf("unexpected run %+v for empty queue", result)
	case <-time.After(100 * time.Millisecond):
	}
	if observer.runCount() != 1 {
		t.Errorf("runs = %d, want 1", observer.runCount())
	}

	cancel()
	<-done
}

func TestReplayer_OnlineWithoutPriorOffline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memStore{}
	monitor := connectivity.NewManual(true)
	observer := newRecordingObserver()
	processor := queue.NewProcessor(store, queue.NewRegistry(), 3, nil)
	r := NewReplayer(processor, monitor, observer, nil, Config{PollInterval: time.Hour})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	// Already online, queue empty: nothing should happen.
	select {
	case result := <-observer.runCh:
		t.Fatalf("unexpected run %+v", result)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestReplayer_PollsPendingCountWhileOffline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memStore{}
	if _, err := store.Append(ctx, domain.KindSetGoal, json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}

	monitor := connectivity.NewManual(false)
	observer := newRecordingObserver()
	processor := queue.NewProcessor(store, queue.NewRegistry(), 3, nil)
	r := NewReplayer(processor, monitor, observer, nil, Config{PollInterval: 10 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if counts := observer.pendingCounts(); len(counts) >= 3 {
			for _, n := range counts {
				if n != 1 {
					t.Errorf("pending count = %d, want 1", n)
				}
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("pending count not polled while offline")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// No runs while offline.
	if observer.runCount() != 0 {
		t.Errorf("runs while offline = %d, want 0", observer.runCount())
	}

	cancel()
	<-done
}

func TestReplayer_CountErrorKeepsTransitionTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memStore{countErr: errors.New("disk I/O error")}
	registry := queue.NewRegistry()

	var handled int
	var mu sync.Mutex
	registry.Register(domain.KindAddFoodLog, func(ctx context.Context, payload json.RawMessage) error {
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})

	if _, err := store.Append(ctx, domain.KindAddFoodLog, json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}

	monitor := connectivity.NewManual(false)
	observer := newRecordingObserver()
	processor := queue.NewProcessor(store, registry, 3, nil)
	r := NewReplayer(processor, monitor, observer, nil, Config{PollInterval: 10 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	// The store fails Count exactly when the transition fires. The run
	// must not be abandoned: once the store recovers, a poll tick picks
	// the queued mutation back up.
	monitor.SetOnline(true)

	deadline := time.After(2 * time.Second)
	for store.countCallCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("pending count never consulted after transition")
		case <-time.After(5 * time.Millisecond):
		}
	}
	store.setCountErr(nil)

	select {
	case result := <-observer.runCh:
		if result.Processed != 1 {
			t.Errorf("processed = %d, want 1", result.Processed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("queued mutation stranded after store error at transition")
	}

	mu.Lock()
	if handled != 1 {
		t.Errorf("handled = %d, want 1", handled)
	}
	mu.Unlock()

	cancel()
	<-done
}

func TestReplayer_DrainsLeftoverQueueOnOnlineStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memStore{}
	registry := queue.NewRegistry()
	registry.Register(domain.KindLogWeight, func(ctx context.Context, payload json.RawMessage) error {
		return nil
	})
	if _, err := store.Append(ctx, domain.KindLogWeight, json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}

	monitor := connectivity.NewManual(true)
	observer := newRecordingObserver()
	processor := queue.NewProcessor(store, registry, 3, nil)
	r := NewReplayer(processor, monitor, observer, nil, Config{PollInterval: time.Hour})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	// Records queued in a previous session drain as soon as the loop
	// starts online.
	select {
	case result := <-observer.runCh:
		if result.Processed != 1 {
			t.Errorf("processed = %d, want 1", result.Processed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("leftover queue not drained on online start")
	}

	cancel()
	<-done
}
