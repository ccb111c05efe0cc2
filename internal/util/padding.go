package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize matches the line size of effectively all current 64-bit
// CPUs. The runtime's own constant is unexported, so it is restated here.
const CacheLineSize = 64

// CacheLinePad separates groups of hot fields onto distinct cache lines to
// keep independent writers from false-sharing a line.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicInt64 is an atomic int64 occupying a full cache line, for
// counters that many goroutines update independently.
type PaddedAtomicInt64 struct {
	atomic.Int64
	_ [CacheLineSize - 8]byte // int64 is 8 bytes; fill the rest of the line
}

// PaddedAtomicUint64 is the uint64 counterpart.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

// Compile-time checks that the padded types stay exactly one line wide.

var (
	_ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicInt64{}))]byte
	_ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicUint64{}))]byte
)
