package pkg

import "context"

// Lifecycle carries a context that lives as long as the server. Work that
// outlives a single request, such as event streams, derives from it so that
// Shutdown stops it.
type Lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewLifecycle() *Lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return &Lifecycle{ctx: ctx, cancel: cancel}
}

func (l *Lifecycle) Context() context.Context {
	return l.ctx
}

// Shutdown cancels Context. It is safe to call more than once.
func (l *Lifecycle) Shutdown() {
	l.cancel()
}
