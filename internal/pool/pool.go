// Package pool provides a reuse-oriented allocator for short-lived, high-churn objects.
package pool

// Pool hands out reusable instances of T. Every instance it has ever constructed is
// either free (waiting for reuse) or active (in play), never both.
//
// A is the spawn argument passed to the reset function on every Acquire.
// Pool is not safe for concurrent use; the game loop is its single owner.
type Pool[T comparable, A any] struct {
	free   []T
	active []T

	newFn   func() T
	resetFn func(obj T, args A)
	created int
}

// New creates a pool and pre-warms it with initialSize free instances.
// initialSize is a hint, not a cap: the pool grows whenever free runs out.
func New[T comparable, A any](newFn func() T, resetFn func(obj T, args A), initialSize int) *Pool[T, A] {
	if initialSize < 0 {
		initialSize = 0
	}
	p := &Pool[T, A]{
		free:    make([]T, 0, initialSize),
		active:  make([]T, 0, initialSize),
		newFn:   newFn,
		resetFn: resetFn,
	}
	for i := 0; i < initialSize; i++ {
		p.free = append(p.free, p.construct())
	}
	return p
}

func (p *Pool[T, A]) construct() T {
	p.created++
	return p.newFn()
}

// Acquire takes a free instance (or constructs one), marks it active and resets it with args.
func (p *Pool[T, A]) Acquire(args A) T {
	var obj T
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
	} else {
		obj = p.construct()
	}
	p.active = append(p.active, obj)
	p.resetFn(obj, args)
	return obj
}

// Release returns an active instance to the free list.
// Releasing an instance that is not active is a no-op.
func (p *Pool[T, A]) Release(obj T) bool {
	idx := p.indexOf(obj)
	if idx < 0 {
		return false
	}
	// Preserve the order of the remaining active instances.
	copy(p.active[idx:], p.active[idx+1:])
	var zero T
	p.active[len(p.active)-1] = zero
	p.active = p.active[:len(p.active)-1]
	p.free = append(p.free, obj)
	return true
}

// ReleaseAll moves every active instance back to the free list.
func (p *Pool[T, A]) ReleaseAll() {
	p.free = append(p.free, p.active...)
	clear(p.active)
	p.active = p.active[:0]
}

// IsActive reports whether obj is currently in play.
func (p *Pool[T, A]) IsActive(obj T) bool {
	return p.indexOf(obj) >= 0
}

// Snapshot returns a point-in-time copy of the active sequence. The elements are the
// live instances; the slice itself is safe to iterate while the pool is mutated.
func (p *Pool[T, A]) Snapshot() []T {
	return p.AppendActive(make([]T, 0, len(p.active)))
}

// AppendActive appends the active instances to dst and returns the extended slice.
// Use it with a reused buffer to take a snapshot without allocating.
func (p *Pool[T, A]) AppendActive(dst []T) []T {
	return append(dst, p.active...)
}

// Active returns the number of instances in play.
func (p *Pool[T, A]) Active() int {
	return len(p.active)
}

// Free returns the number of instances waiting for reuse.
func (p *Pool[T, A]) Free() int {
	return len(p.free)
}

// Created returns the number of instances the pool has ever constructed.
func (p *Pool[T, A]) Created() int {
	return p.created
}

func (p *Pool[T, A]) indexOf(obj T) int {
	for i, o := range p.active {
		if o == obj {
			return i
		}
	}
	return -1
}
