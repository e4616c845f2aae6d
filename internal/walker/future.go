package walker

import "sync"

// Future is the one-shot completion signal for a walk. It settles
// exactly once, either to success or to the first error recorded;
// later completion attempts are no-ops.
type Future struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// setSuccess resolves the future successfully if it is not already
// settled.
func (f *Future) setSuccess() {
	f.once.Do(func() {
		close(f.done)
	})
}

// setError resolves the future with err if it is not already settled.
func (f *Future) setError(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err blocks until the future settles and returns its terminal error,
// nil on success.
func (f *Future) Err() error {
	<-f.done
	return f.err
}
