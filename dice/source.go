package dice

import (
	"crypto/rand"
	"math/big"
	randv2 "math/rand/v2"
)

// Source produces uniform random integers.
//
// IntN returns a value in [0, n) for n > 0. Implementations must not reduce
// a wider random value modulo n; *rand.Rand from math/rand/v2 qualifies.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG generator with its own freshly seeded state.
// The returned source is not safe for concurrent use.
func NewSource() *randv2.Rand {
	return randv2.New(randv2.NewPCG(randv2.Uint64(), randv2.Uint64()))
}

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It is safe for
// concurrent use.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// IntN panics if n <= 0 or if the system random reader fails.
func (cryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("dice: IntN called with n <= 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}
