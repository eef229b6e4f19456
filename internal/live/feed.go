package live

import "sync"

// Subscription delivers successive snapshots of one query's result set.
// The channel always carries the newest snapshot: if a subscriber lags,
// intermediate snapshots are conflated away rather than queued, so a
// slow reader never blocks a writer.
type Subscription[T any] struct {
	ch   chan T
	f    *feed[T]
	once sync.Once
}

// Updates returns the snapshot channel. The first receive yields the
// result current at subscription time; every commit that touches the
// query's rows yields a fresh one.
func (s *Subscription[T]) Updates() <-chan T {
	return s.ch
}

// Cancel stops delivery and closes the channel. The underlying store is
// unaffected. Safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		s.f.remove(s)
	})
}

// feed fans one query's recomputed snapshots out to its subscribers.
// The snapshot is computed once per commit regardless of subscriber
// count.
type feed[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{subs: make(map[*Subscription[T]]struct{})}
}

// subscribe registers a subscription primed with the current snapshot.
func (f *feed[T]) subscribe(current T) *Subscription[T] {
	s := &Subscription[T]{
		ch: make(chan T, 1),
		f:  f,
	}
	s.ch <- current

	f.mu.Lock()
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	return s
}

// publish delivers a snapshot to every subscriber, replacing any
// not-yet-received older snapshot.
func (f *feed[T]) publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for s := range f.subs {
		// Drop the stale buffered snapshot, if any, then send.
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- v:
		default:
		}
	}
}

func (f *feed[T]) remove(s *Subscription[T]) {
	f.mu.Lock()
	delete(f.subs, s)
	f.mu.Unlock()
	close(s.ch)
}

// active reports whether any subscriber is attached.
func (f *feed[T]) active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs) > 0
}
