package glint

import "testing"

func TestLowBits(t *testing.T) {
	if lowBits(0) != 0 {
		t.Fatalf("lowBits(0) = %b", lowBits(0))
	}
	if lowBits(1) != 1 {
		t.Fatalf("lowBits(1) = %b", lowBits(1))
	}
	if lowBits(3) != 0b111 {
		t.Fatalf("lowBits(3) = %b", lowBits(3))
	}
	if lowBits(MaxParams) != ^uint64(0) {
		t.Fatalf("lowBits(MaxParams) = %b", lowBits(MaxParams))
	}
}

func TestBoundArgsMask(t *testing.T) {
	var buf boundArgs
	buf.markBound(0)
	buf.markBound(2)

	if !buf.isBound(0) || buf.isBound(1) || !buf.isBound(2) {
		t.Fatalf("unexpected mask: %b", buf.mask)
	}
	if buf.boundCount(3) != 2 {
		t.Fatalf("expected 2 bound of 3, got %d", buf.boundCount(3))
	}
	if buf.boundCount(1) != 1 {
		t.Fatalf("expected 1 bound of 1, got %d", buf.boundCount(1))
	}

	// Out-of-range slots never touch the mask.
	buf.markBound(-1)
	buf.markBound(MaxParams)
	if buf.boundCount(MaxParams) != 2 {
		t.Fatalf("out-of-range markBound changed the mask: %b", buf.mask)
	}
}

func TestArgBufferPoolReuse(t *testing.T) {
	var pool argBufferPool

	buf := pool.acquire(3)
	if cap(buf.vals) < 3 || len(buf.vals) != 0 {
		t.Fatalf("unexpected buffer shape: len=%d cap=%d", len(buf.vals), cap(buf.vals))
	}
	buf.vals = append(buf.vals, NewInt(1), NewInt(2))
	buf.markBound(0)
	buf.markBound(1)
	pool.release(buf)

	again := pool.acquire(4)
	if again != buf {
		t.Fatalf("expected the released buffer to be reused")
	}
	if len(again.vals) != 0 || again.mask != 0 {
		t.Fatalf("released buffer was not reset: len=%d mask=%b", len(again.vals), again.mask)
	}
}

func TestArgBufferPoolBuckets(t *testing.T) {
	if bucketFor(1) != 4 || bucketFor(4) != 4 {
		t.Fatalf("small capacities should land in the 4 bucket")
	}
	if bucketFor(5) != 8 {
		t.Fatalf("expected bucket 8 for capacity 5, got %d", bucketFor(5))
	}
	if bucketFor(200) != 200 {
		t.Fatalf("oversized capacities are served exactly, got %d", bucketFor(200))
	}

	var pool argBufferPool
	small := pool.acquire(2)
	pool.release(small)
	large := pool.acquire(20)
	if large == small {
		t.Fatalf("capacity 20 must not reuse a 4-slot buffer")
	}
}

func TestArgBufferPoolReleaseNil(t *testing.T) {
	var pool argBufferPool
	pool.release(nil)
	if buf := pool.acquire(1); buf == nil {
		t.Fatalf("pool unusable after releasing nil")
	}
}
