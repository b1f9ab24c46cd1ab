package resilience

import (
	"context"
	"sync"
)

// Group deduplicates concurrent calls for the same key. Callers arriving
// while a call is in flight wait for it and share its result.
type Group[V any] struct {
	mu    sync.Mutex
	calls map[string]*call[V]
}

type call[V any] struct {
	wg  sync.WaitGroup
	val V
	err error
}

// Do runs fn once per key at a time. shared reports whether the result came
// from another caller's execution.
func (g *Group[V]) Do(key string, fn func() (V, error)) (v V, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[V])
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[V]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	defer func() {
		c.wg.Done()
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
	}()

	c.val, c.err = fn()
	return c.val, c.err, false
}

// DoContext is Do for a caller that may stop waiting. fn keeps running for
// the remaining callers after ctx ends, so it must not depend on ctx.
func (g *Group[V]) DoContext(ctx context.Context, key string, fn func() (V, error)) (V, error, bool) {
	type result struct {
		val    V
		err    error
		shared bool
	}
	done := make(chan result, 1)
	go func() {
		v, err, shared := g.Do(key, fn)
		done <- result{val: v, err: err, shared: shared}
	}()

	select {
	case res := <-done:
		return res.val, res.err, res.shared
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err(), false
	}
}
