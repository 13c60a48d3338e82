package store

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	fail     func(index int) bool
	delay    time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (f *fakeSource) FrameCount() int         { return 0 }
func (f *fakeSource) Locate(index int) string { return "" }
func (f *fakeSource) Close() error            { return nil }

func (f *fakeSource) Fetch(ctx context.Context, index int) (image.Image, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail != nil && f.fail(index) {
		return nil, errors.New("boom")
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func waitReady(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("store never became ready")
	}
}

func TestStoreLoadsAllFrames(t *testing.T) {
	src := &fakeSource{}
	s := New(src, 20, WithID("hero"))

	if s.Loaded() {
		t.Fatal("store loaded before Load")
	}

	waitReady(t, s.Load(context.Background()))

	if !s.Loaded() {
		t.Fatal("Expected Loaded after ready")
	}
	for i := 1; i <= 20; i++ {
		if _, ok := s.Get(i); !ok {
			t.Errorf("frame %d missing", i)
		}
	}
	st := s.Stats()
	if st.Loaded != 20 || st.Failed != 0 || st.Pending != 0 {
		t.Errorf("Unexpected stats %+v", st)
	}
	if st.Bytes != 20*2*2*4 {
		t.Errorf("Expected %d bytes, got %d", 20*2*2*4, st.Bytes)
	}
}

func TestStoreReadyEvenIfEveryLoadFails(t *testing.T) {
	src := &fakeSource{fail: func(int) bool { return true }}
	s := New(src, 8)

	waitReady(t, s.Load(context.Background()))

	if !s.Loaded() {
		t.Fatal("Expected Loaded even though all frames failed")
	}
	for i := 1; i <= 8; i++ {
		if img, ok := s.Get(i); ok || img != nil {
			t.Errorf("frame %d should be missing", i)
		}
		if st := s.Status(i); st != StatusFailed {
			t.Errorf("frame %d: expected failed, got %s", i, st)
		}
	}
}

func TestStorePartialFailure(t *testing.T) {
	src := &fakeSource{fail: func(i int) bool { return i%3 == 0 }}
	s := New(src, 9)
	waitReady(t, s.Load(context.Background()))

	st := s.Stats()
	if st.Loaded != 6 || st.Failed != 3 {
		t.Errorf("Unexpected stats %+v", st)
	}
	if s.Status(3) != StatusFailed || s.Status(4) != StatusLoaded {
		t.Errorf("Unexpected statuses: 3=%s 4=%s", s.Status(3), s.Status(4))
	}
}

func TestStoreLoadIsOnce(t *testing.T) {
	src := &fakeSource{}
	s := New(src, 5)

	first := s.Load(context.Background())
	second := s.Load(context.Background())
	if first != second {
		t.Fatal("Expected the same ready channel")
	}
	waitReady(t, first)
	s.Load(context.Background())

	if got := src.calls.Load(); got != 5 {
		t.Errorf("Expected 5 fetches, got %d", got)
	}
}

func TestStoreOutOfRange(t *testing.T) {
	s := New(&fakeSource{}, 3)
	waitReady(t, s.Load(context.Background()))

	for _, i := range []int{-1, 0, 4} {
		if _, ok := s.Get(i); ok {
			t.Errorf("index %d should be missing", i)
		}
	}
}

func TestStorePendingBeforeLoad(t *testing.T) {
	s := New(&fakeSource{}, 3)
	if st := s.Status(1); st != StatusPending {
		t.Errorf("Expected pending, got %s", st)
	}
}

func TestStoreMaxConcurrent(t *testing.T) {
	src := &fakeSource{delay: 5 * time.Millisecond}
	s := New(src, 12, WithMaxConcurrent(3))
	waitReady(t, s.Load(context.Background()))

	if p := src.peak.Load(); p > 3 {
		t.Errorf("Expected at most 3 concurrent fetches, saw %d", p)
	}
}

func TestStoreProgressCallback(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	s := New(&fakeSource{}, 6, WithProgress(func(settled, total int) {
		mu.Lock()
		seen = append(seen, settled)
		mu.Unlock()
		if total != 6 {
			t.Errorf("Expected total 6, got %d", total)
		}
	}))
	waitReady(t, s.Load(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 6 {
		t.Fatalf("Expected 6 progress callbacks, got %d", len(seen))
	}
	settled, total := s.Progress()
	if settled != 6 || total != 6 {
		t.Errorf("Progress: %d/%d", settled, total)
	}
}

func TestStoreStatsDuringLoad(t *testing.T) {
	s := New(&fakeSource{delay: time.Millisecond}, 10)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Stats()
			}
		}()
	}
	ready := s.Load(context.Background())
	wg.Wait()
	waitReady(t, ready)

	st := s.Stats()
	if st.Loaded != 10 {
		t.Errorf("Expected 10 loaded, got %+v", st)
	}
	if st.Elapsed <= 0 {
		t.Errorf("Expected elapsed load time, got %v", st.Elapsed)
	}
	t.Logf("stats after load: %+v", st)
}
