package models

import "encoding/json"

// Kind discriminates the renderable content types.
type Kind string

const (
	KindArticle         Kind = "article"
	KindOpinion         Kind = "opinion"
	KindMeme            Kind = "meme"
	KindExternalArticle Kind = "external-article"
)

// Valid reports whether k is one of the four content kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindArticle, KindOpinion, KindMeme, KindExternalArticle:
		return true
	}
	return false
}

type CategoryAttributes struct {
	Timestamps
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type TagAttributes struct {
	Timestamps
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type (
	Category         = Entity[CategoryAttributes]
	Tag              = Entity[TagAttributes]
	CategoryRelation = Relation[CategoryAttributes]
	TagList          = RelationList[TagAttributes]
)

type ArticleAttributes struct {
	Timestamps
	Title             string            `json:"title"`
	Slug              string            `json:"slug"`
	Excerpt           string            `json:"excerpt,omitempty"`
	Quote             string            `json:"quote,omitempty"`
	RichBody          json.RawMessage   `json:"rich_body,omitempty"`
	Date              string            `json:"date"`
	Author            string            `json:"author,omitempty"`
	WordCount         int               `json:"word_count,omitempty"`
	ReadTime          int               `json:"read_time,omitempty"`
	IsFeatured        bool              `json:"is_featured,omitempty"`
	ImagePath         string            `json:"image_path,omitempty"`
	Image             *MediaRelation    `json:"image,omitempty"`
	AuthorImage       *MediaRelation    `json:"author_image,omitempty"`
	Category          *CategoryRelation `json:"category,omitempty"`
	SecondaryCategory *CategoryRelation `json:"secondary_category,omitempty"`
	Tags              *TagList          `json:"tags,omitempty"`
	ContentType       Kind              `json:"contentType,omitempty"`
}

// Opinion has no primary category; "Opinion" is implied.
type OpinionAttributes struct {
	Timestamps
	Title             string            `json:"title"`
	Slug              string            `json:"slug"`
	Excerpt           string            `json:"excerpt,omitempty"`
	Quote             string            `json:"quote,omitempty"`
	RichBody          json.RawMessage   `json:"rich_body,omitempty"`
	Date              string            `json:"date"`
	Author            string            `json:"author,omitempty"`
	WordCount         int               `json:"word_count,omitempty"`
	ReadTime          int               `json:"read_time,omitempty"`
	ImagePath         string            `json:"image_path,omitempty"`
	FeaturedImage     *MediaRelation    `json:"featured_image,omitempty"`
	AuthorImage       *MediaRelation    `json:"author_image,omitempty"`
	SecondaryCategory *CategoryRelation `json:"secondary_category,omitempty"`
	Tags              *TagList          `json:"tags,omitempty"`
	ContentType       Kind              `json:"contentType,omitempty"`
}

type MemeAttributes struct {
	Timestamps
	Title       string         `json:"title,omitempty"`
	Slug        string         `json:"slug,omitempty"`
	ImagePath   string         `json:"image_path,omitempty"`
	Image       *MediaRelation `json:"image,omitempty"`
	Date        string         `json:"date,omitempty"`
	Tags        *TagList       `json:"tags,omitempty"`
	ContentType Kind           `json:"contentType,omitempty"`
}

// ExternalArticleAttributes links out; ImageURL is a plain string, not media.
type ExternalArticleAttributes struct {
	Timestamps
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Source      string   `json:"source,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Date        string   `json:"date,omitempty"`
	Tags        *TagList `json:"tags,omitempty"`
	ContentType Kind     `json:"contentType,omitempty"`
}

type (
	Article         = Entity[ArticleAttributes]
	Opinion         = Entity[OpinionAttributes]
	Meme            = Entity[MemeAttributes]
	ExternalArticle = Entity[ExternalArticleAttributes]
)

// SubscriptionAttributes is the only record this site writes to the CMS.
type SubscriptionAttributes struct {
	Email string `json:"email"`
}
