// Package ptr provides lock-guarded shared pointers for the cell graph.
//
// Many layouts may hold references to the same cell definition. A [Ptr]
// lets any number of readers inspect the value concurrently while a writer
// gets exclusive access. If a writer panics mid-update the pointer is
// poisoned: the value may be half-written, so every later access returns an
// [errors.ErrCodeLockPoisoned] error instead of exposing it.
//
// # Concurrency
//
// Access is never re-entrant. Calling Read or Write on a pointer from inside
// a Write callback on the same pointer deadlocks, as does walking a cyclic
// graph of pointers. Acyclicity is enforced where graphs are built (see the
// library package), not here.
package ptr

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/tetris/pkg/errors"
)

// Ptr is a shared, read/write-locked reference to a T.
// The zero value is not usable; create pointers with New.
type Ptr[T any] struct {
	mu       sync.RWMutex
	val      T
	poisoned atomic.Bool
}

// New wraps v in a shared pointer.
func New[T any](v T) *Ptr[T] {
	return &Ptr[T]{val: v}
}

// Read runs fn with shared access to the value.
// fn must not modify the value or retain the pointer after returning.
func (p *Ptr[T]) Read(fn func(v *T) error) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidInput, "read through nil pointer")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.poisoned.Load() {
		return errPoisoned()
	}
	return fn(&p.val)
}

// TryRead is like Read but fails with ErrCodeLockUnavailable instead of
// blocking when a writer holds the lock.
func (p *Ptr[T]) TryRead(fn func(v *T) error) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidInput, "read through nil pointer")
	}
	if !p.mu.TryRLock() {
		return errors.New(errors.ErrCodeLockUnavailable, "shared value is locked for writing")
	}
	defer p.mu.RUnlock()
	if p.poisoned.Load() {
		return errPoisoned()
	}
	return fn(&p.val)
}

// Write runs fn with exclusive access to the value.
// A panic inside fn poisons the pointer before it propagates.
func (p *Ptr[T]) Write(fn func(v *T) error) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidInput, "write through nil pointer")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.poisoned.Load() {
		return errPoisoned()
	}
	defer func() {
		if r := recover(); r != nil {
			p.poisoned.Store(true)
			panic(r)
		}
	}()
	return fn(&p.val)
}

// Poisoned reports whether a writer panicked while holding the lock.
func (p *Ptr[T]) Poisoned() bool { return p != nil && p.poisoned.Load() }

// Same reports whether p and q refer to the same shared value.
func (p *Ptr[T]) Same(q *Ptr[T]) bool { return p == q }

func (p *Ptr[T]) String() string {
	if p == nil {
		return "Ptr(nil)"
	}
	return fmt.Sprintf("Ptr(%p)", p)
}

func errPoisoned() error {
	return errors.New(errors.ErrCodeLockPoisoned, "shared value was poisoned by a panicking writer")
}

// Get runs fn under shared access and returns its result.
func Get[T, R any](p *Ptr[T], fn func(v *T) (R, error)) (R, error) {
	var out R
	err := p.Read(func(v *T) error {
		var err error
		out, err = fn(v)
		return err
	})
	return out, err
}

// List is an ordered collection of shared pointers.
type List[T any] []*Ptr[T]

// Add wraps v in a new pointer, appends it, and returns the pointer.
func (l *List[T]) Add(v T) *Ptr[T] {
	p := New(v)
	*l = append(*l, p)
	return p
}

// Index returns the position of p in the list, or -1.
func (l List[T]) Index(p *Ptr[T]) int {
	for i, q := range l {
		if q.Same(p) {
			return i
		}
	}
	return -1
}
