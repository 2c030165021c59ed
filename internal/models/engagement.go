package models

// LikeModel is one visitor's like of one content item. The CMS owns the
// items; only the (kind, item, visitor) triple is stored here.
type LikeModel struct {
	Base
	Kind      Kind   `json:"kind"       gorm:"type:varchar(32);not null;uniqueIndex:idx_like_visitor,priority:1;index:idx_like_item,priority:1"`
	ItemID    int    `json:"item_id"    gorm:"not null;uniqueIndex:idx_like_visitor,priority:2;index:idx_like_item,priority:2"`
	VisitorID string `json:"visitor_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_like_visitor,priority:3"`
}

func (LikeModel) TableName() string { return "likes" }
