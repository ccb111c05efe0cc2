package util

// NextPow2 returns the smallest power of two >= x.
// NextPow2(0) == 1. Values above 1<<63 clamp to 1<<63.
func NextPow2(x uint64) uint64 {
	if x == 0 {
		return 1
	}
	if x > 1<<63 {
		return 1 << 63
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	return x + 1
}
