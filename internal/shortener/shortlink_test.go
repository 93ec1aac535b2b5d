package shortener_test

import (
	"testing"

	"github.com/serroba/linkshorter/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortLink_RegenerateToken(t *testing.T) {
	t.Run("replaces token while unpersisted", func(t *testing.T) {
		generate := sequenceGenerator("AAAAA", "BBBBB")

		link, err := shortener.NewShortLink(testURL, 5, generate)
		require.NoError(t, err)
		assert.Equal(t, shortener.Token("AAAAA"), link.Token)

		require.NoError(t, link.RegenerateToken(5, generate))
		assert.Equal(t, shortener.Token("BBBBB"), link.Token)
		assert.Equal(t, testURL, link.URL)
	})

	t.Run("refuses once persisted", func(t *testing.T) {
		generate := sequenceGenerator("AAAAA", "BBBBB")

		link, err := shortener.NewShortLink(testURL, 5, generate)
		require.NoError(t, err)

		link.ID = 7

		err = link.RegenerateToken(5, generate)

		assert.ErrorIs(t, err, shortener.ErrTokenFrozen)
		assert.Equal(t, shortener.Token("AAAAA"), link.Token)
	})

	t.Run("propagates invalid length", func(t *testing.T) {
		link, err := shortener.NewShortLink(testURL, 0, shortener.NewRandomTokenGenerator())

		assert.Nil(t, link)
		assert.Equal(t, shortener.KindInvalidArgument, shortener.KindOf(err))
	})
}
