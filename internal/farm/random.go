package farm

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible farms.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

func randomRNG() *rand.Rand {
	// #nosec G404
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func randomItem[T any](rng *rand.Rand, from []T) T {
	return from[rng.IntN(len(from))]
}
