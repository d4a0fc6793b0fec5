package glint

import "math/bits"

// boundArgs is the transient result of binding one call: the argument vector
// in slot order plus a bitmask where bit i is set iff slot i received an
// explicit or defaulted value. Buffers are pool-owned; a dispatcher acquires
// one before binding and releases it on every exit path.
type boundArgs struct {
	vals []Value
	mask uint64
}

func (b *boundArgs) markBound(slot int) {
	if slot >= 0 && slot < MaxParams {
		b.mask |= uint64(1) << uint(slot)
	}
}

func (b *boundArgs) isBound(slot int) bool {
	if slot < 0 || slot >= MaxParams {
		return false
	}
	return b.mask&(uint64(1)<<uint(slot)) != 0
}

func (b *boundArgs) boundCount(width int) int {
	if width <= 0 {
		return 0
	}
	if width > MaxParams {
		width = MaxParams
	}
	return bits.OnesCount64(b.mask & lowBits(width))
}

func lowBits(width int) uint64 {
	if width >= MaxParams {
		return ^uint64(0)
	}
	return uint64(1)<<uint(width) - 1
}

// argBufferPool reuses argument vectors across the calls of one Execution.
// Buffers are bucketed by capacity so a recursive evaluator does not allocate
// a fresh vector per call. The pool belongs to a single Execution and is not
// safe for concurrent use, matching the evaluator's single-threaded model.
type argBufferPool struct {
	free map[int][]*boundArgs
}

// capacity buckets: callables cap out at MaxParams slots, but variadic calls
// can carry more values than declared slots.
var poolBuckets = [...]int{4, 8, 16, 32, 64, 128}

func bucketFor(capacity int) int {
	for _, b := range poolBuckets {
		if capacity <= b {
			return b
		}
	}
	return capacity
}

func (p *argBufferPool) acquire(capacity int) *boundArgs {
	bucket := bucketFor(capacity)
	if p.free == nil {
		p.free = make(map[int][]*boundArgs)
	}
	stack := p.free[bucket]
	if n := len(stack); n > 0 {
		buf := stack[n-1]
		p.free[bucket] = stack[:n-1]
		return buf
	}
	return &boundArgs{vals: make([]Value, 0, bucket)}
}

func (p *argBufferPool) release(buf *boundArgs) {
	if buf == nil {
		return
	}
	if p.free == nil {
		p.free = make(map[int][]*boundArgs)
	}
	clear(buf.vals)
	buf.vals = buf.vals[:0]
	buf.mask = 0
	bucket := bucketFor(cap(buf.vals))
	p.free[bucket] = append(p.free[bucket], buf)
}
