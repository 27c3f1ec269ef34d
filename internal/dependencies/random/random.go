package random

import (
	"crypto/rand"
	"math/big"
)

// Random is the source behind room, match and bot ids and the bot's firing
// choices. Tests swap in mocks.MockRandom to script both.
type Random interface {
	// Intn returns a value in [0, n), or 0 when n <= 0
	Intn(n int) int

	// String draws length characters from alphabet
	String(length int, alphabet string) string
}

// Source draws from crypto/rand so lobby ids cannot be guessed from earlier ones
type Source struct{}

func New() *Source {
	return &Source{}
}

func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is gone
		panic("random: " + err.Error())
	}
	return int(v.Int64())
}

func (s *Source) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	id := make([]byte, length)
	for i := range id {
		id[i] = alphabet[s.Intn(len(alphabet))]
	}
	return string(id)
}
