// Package engagement stores per-visitor likes for articles and opinions.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rwtnews/site/internal/models"
)

var ErrUnsupportedKind = errors.New("engagement: unsupported content kind")

// Key identifies one CMS item.
type Key struct {
	Kind models.Kind
	ID   int
}

func (k Key) String() string { return fmt.Sprintf("%s:%d", k.Kind, k.ID) }

// Counts is what a visitor sees for one item.
type Counts struct {
	Likes        int64 `json:"likes"`
	UserHasLiked bool  `json:"userHasLiked"`
}

// Store reads and toggles likes. An empty visitor reads counts only and
// never toggles.
type Store interface {
	Get(ctx context.Context, key Key, visitor string) (Counts, error)
	Toggle(ctx context.Context, key Key, visitor string) (Counts, error)
}

// ParseKey validates route parameters. Only articles and opinions carry
// engagement.
func ParseKey(kind, id string) (Key, error) {
	k := models.Kind(strings.ToLower(strings.TrimSpace(kind)))
	if k != models.KindArticle && k != models.KindOpinion {
		return Key{}, ErrUnsupportedKind
	}
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return Key{}, fmt.Errorf("engagement: invalid item id %q", id)
	}
	return Key{Kind: k, ID: n}, nil
}
