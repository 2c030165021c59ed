package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/rwtnews/site/internal/models"
	"gorm.io/gorm"
)

// SQLStore keeps one row per (kind, item, visitor) in the likes table.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key Key, visitor string) (Counts, error) {
	return s.read(s.db.WithContext(ctx), key, visitor)
}

func (s *SQLStore) Toggle(ctx context.Context, key Key, visitor string) (Counts, error) {
	if visitor == "" {
		return s.Get(ctx, key, "")
	}
	var out Counts
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.LikeModel
		err := tx.Where("kind = ? AND item_id = ? AND visitor_id = ?", key.Kind, key.ID, visitor).
			Take(&row).Error
		switch {
		case err == nil:
			if err := tx.Delete(&row).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = models.LikeModel{Kind: key.Kind, ItemID: key.ID, VisitorID: visitor}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		default:
			return err
		}
		counts, err := s.read(tx, key, visitor)
		out = counts
		return err
	})
	if err != nil {
		return Counts{}, fmt.Errorf("engagement: toggle %s: %w", key, err)
	}
	return out, nil
}

func (s *SQLStore) read(db *gorm.DB, key Key, visitor string) (Counts, error) {
	var out Counts
	item := db.Model(&models.LikeModel{}).Where("kind = ? AND item_id = ?", key.Kind, key.ID)
	if err := item.Count(&out.Likes).Error; err != nil {
		return Counts{}, fmt.Errorf("engagement: count %s: %w", key, err)
	}
	if visitor == "" {
		return out, nil
	}
	var mine int64
	err := db.Model(&models.LikeModel{}).
		Where("kind = ? AND item_id = ? AND visitor_id = ?", key.Kind, key.ID, visitor).
		Count(&mine).Error
	if err != nil {
		return Counts{}, fmt.Errorf("engagement: read %s: %w", key, err)
	}
	out.UserHasLiked = mine > 0
	return out, nil
}
