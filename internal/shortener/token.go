package shortener

import (
	"strconv"
	"strings"
	"sync"

	"github.com/jaevor/go-nanoid"
)

// Alphabet lists every symbol a token may contain.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// nanoid sizes its random buffer as (length/5)*8 bytes and never fills an empty one,
// so shorter tokens are cut from a five-symbol id.
const minNanoidLength = 5

// Token is the public identifier of a short link.
type Token string

// Valid reports whether t is non-empty and built only from Alphabet symbols.
func (t Token) Valid() bool {
	if t == "" {
		return false
	}

	for _, r := range string(t) {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}

	return true
}

// TokenGenerator produces a random token of exactly length symbols.
// It makes no uniqueness promise; callers check the store for collisions.
type TokenGenerator func(length int) (Token, error)

// NewRandomTokenGenerator returns a generator backed by crypto/rand through nanoid.
// The returned function is safe for concurrent use and reuses one generator per length.
func NewRandomTokenGenerator() TokenGenerator {
	var generators sync.Map

	return func(length int) (Token, error) {
		if length < 1 {
			return "", NewError(KindInvalidArgument, strconv.Itoa(length), nil, "token length must be positive")
		}

		size := max(length, minNanoidLength)

		next, ok := generators.Load(size)
		if !ok {
			gen, err := nanoid.CustomASCII(Alphabet, size)
			if err != nil {
				return "", NewError(KindInvalidArgument, strconv.Itoa(length), err, "unsupported token length")
			}

			next, _ = generators.LoadOrStore(size, func() string { return gen() })
		}

		id := next.(func() string)()

		return Token(id[:length]), nil
	}
}

var defaultGenerator = NewRandomTokenGenerator()

// GenerateToken draws a token from the process-wide generator.
func GenerateToken(length int) (Token, error) {
	return defaultGenerator(length)
}
