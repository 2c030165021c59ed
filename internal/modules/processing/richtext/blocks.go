// Package richtext renders CMS block rich text (and legacy markdown bodies)
// to HTML.
package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	TypeParagraph = "paragraph"
	TypeHeading   = "heading"
	TypeList      = "list"
	TypeImage     = "image"
	TypeQuote     = "quote"
	TypeCode      = "code"

	TypeText     = "text"
	TypeLink     = "link"
	TypeListItem = "list-item"

	FormatOrdered   = "ordered"
	FormatUnordered = "unordered"
)

// Block is one top-level rich text node. Type is kept verbatim so unknown
// types survive decoding and render as a visible fallback.
type Block struct {
	Type     string `json:"type"`
	Level    int    `json:"level,omitempty"`
	Format   string `json:"format,omitempty"`
	Image    *Image `json:"image,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Node is an inline leaf, a link or a list item. A leaf without a type is text.
type Node struct {
	Type          string `json:"type,omitempty"`
	Text          string `json:"text,omitempty"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Code          bool   `json:"code,omitempty"`
	URL           string `json:"url,omitempty"`
	Children      []Node `json:"children,omitempty"`
}

type Image struct {
	Name            string `json:"name"`
	AlternativeText string `json:"alternativeText"`
	URL             string `json:"url"`
	Caption         string `json:"caption"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
}

// Supported reports whether the renderer has a dedicated rendering for b.
func (b Block) Supported() bool {
	switch b.Type {
	case TypeParagraph, TypeHeading, TypeList, TypeImage, TypeQuote, TypeCode:
		return true
	}
	return false
}

// Parse decodes a block array. null or empty input yields no blocks.
func Parse(raw json.RawMessage) ([]Block, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var blocks []Block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("richtext: decode blocks: %w", err)
	}
	return blocks, nil
}

// Text flattens blocks to plain text, one block per line.
func Text(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		if b.Type == TypeImage {
			if b.Image != nil && b.Image.Caption != "" {
				sb.WriteString(b.Image.Caption)
				sb.WriteByte('\n')
			}
			continue
		}
		writeText(&sb, b.Children)
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String())
}

func writeText(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		if n.Text != "" {
			sb.WriteString(n.Text)
		}
		if len(n.Children) > 0 {
			writeText(sb, n.Children)
			if n.Type == TypeListItem {
				sb.WriteByte(' ')
			}
		}
	}
}
