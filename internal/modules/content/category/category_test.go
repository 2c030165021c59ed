package category

import (
	"testing"

	"github.com/rwtnews/site/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	for _, slug := range Slugs() {
		assert.True(t, IsValid(slug), slug)
	}

	t.Run("case insensitive", func(t *testing.T) {
		assert.True(t, IsValid("NEWS"))
		assert.True(t, IsValid("Meme-Cartoons"))
	})

	t.Run("unknown", func(t *testing.T) {
		for _, slug := range []string{"", "sports", "news-from", "featured/1", " opinion ", "news\n"} {
			assert.False(t, IsValid(slug), slug)
		}
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Memes & Cartoons", DisplayName("meme-cartoons"))
	assert.Equal(t, "News From The Web", DisplayName("NEWS-FROM-WEB"))
	assert.Equal(t, FallbackName, DisplayName("sports"))
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("news-from-web")
	require.True(t, ok)
	assert.Equal(t, models.KindExternalArticle, e.PrimaryKind())

	e.Kinds[0] = models.KindMeme
	again, _ := Lookup("news-from-web")
	assert.Equal(t, models.KindExternalArticle, again.PrimaryKind())

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	assert.Equal(t, News, all[0].Slug)
	assert.Equal(t, Featured, all[4].Slug)
	assert.Equal(t, models.KindArticle, all[4].PrimaryKind())
}
