package util

import "runtime"

// ReasonableShardCount picks a shard count for the current machine:
// roughly twice GOMAXPROCS, rounded up to a power of two and clamped
// to [1, 256]. Masking by shardCount-1 requires the power-of-two shape.
func ReasonableShardCount() int {
	n := runtime.GOMAXPROCS(0) * 2
	if n < 1 {
		n = 1
	}
	c := int(NextPow2(uint64(n)))
	if c > 256 {
		c = 256
	}
	return c
}
