package shortener_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/serroba/linkshorter/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomTokenGenerator(t *testing.T) {
	t.Run("produces tokens of the requested length from the alphabet", func(t *testing.T) {
		generate := shortener.NewRandomTokenGenerator()

		for _, length := range []int{5, 8, 21, 64} {
			token, err := generate(length)

			require.NoError(t, err)
			assert.Len(t, string(token), length)
			assert.True(t, token.Valid(), "token %q has symbols outside the alphabet", token)
		}
	})

	t.Run("returns short tokens without blocking", func(t *testing.T) {
		generate := shortener.NewRandomTokenGenerator()

		for length := 1; length <= 4; length++ {
			done := make(chan shortener.Token, 1)

			go func() {
				token, err := generate(length)
				assert.NoError(t, err)
				done <- token
			}()

			select {
			case token := <-done:
				assert.Len(t, string(token), length)
				assert.True(t, token.Valid())
			case <-time.After(2 * time.Second):
				t.Fatalf("generating a token of length %d did not return", length)
			}
		}
	})

	t.Run("rejects non-positive lengths", func(t *testing.T) {
		generate := shortener.NewRandomTokenGenerator()

		for _, length := range []int{0, -1} {
			token, err := generate(length)

			assert.Empty(t, token)
			assert.Equal(t, shortener.KindInvalidArgument, shortener.KindOf(err))
		}
	})

	t.Run("uses every symbol over many draws", func(t *testing.T) {
		generate := shortener.NewRandomTokenGenerator()
		seen := make(map[rune]bool)

		for range 2000 {
			token, err := generate(8)
			require.NoError(t, err)

			for _, r := range string(token) {
				seen[r] = true
			}
		}

		assert.Len(t, seen, len(shortener.Alphabet))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		generate := shortener.NewRandomTokenGenerator()

		var wg sync.WaitGroup

		for range 16 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for range 100 {
					token, err := generate(6)
					assert.NoError(t, err)
					assert.Len(t, string(token), 6)
				}
			}()
		}

		wg.Wait()
	})
}

func TestGenerateToken(t *testing.T) {
	token, err := shortener.GenerateToken(shortener.DefaultTokenLength)

	require.NoError(t, err)
	assert.Len(t, string(token), shortener.DefaultTokenLength)
}

func TestToken_Valid(t *testing.T) {
	tests := []struct {
		token shortener.Token
		want  bool
	}{
		{token: "ABCDE", want: true},
		{token: "0Z9A1", want: true},
		{token: "", want: false},
		{token: "abcde", want: false},
		{token: "AB-DE", want: false},
		{token: shortener.Token(strings.Repeat("7", 40)), want: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Valid())
		})
	}
}
