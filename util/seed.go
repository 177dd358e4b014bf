package util

import "time"

// RandomSeed returns a seed taken from the wall clock. Used when no seed is fixed.
func RandomSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Seed derives an independent seed for one random stream from a base seed and
// the stream's coordinates (path index, run number, ...). The same arguments
// always give the same seed; neighbouring coordinates give unrelated seeds.
func Seed(base uint64, coords ...int) uint64 {
	s := mix(base)
	for _, c := range coords {
		s = mix(s ^ uint64(c) + 0x9e3779b97f4a7c15)
	}
	return s
}

// splitmix64 finaliser
func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
