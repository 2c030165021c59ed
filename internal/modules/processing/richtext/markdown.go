package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Older entries store rich_body as a markdown string instead of blocks.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var ugc = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

// RenderMarkdown converts markdown to sanitised HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("richtext: render markdown: %w", err)
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes())), nil
}

// Body renders a rich_body field whatever its stored shape: a JSON string
// is markdown, an array is blocks. Empty or null renders nothing.
func (r Renderer) Body(raw json.RawMessage) (template.HTML, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var md string
		if err := json.Unmarshal(raw, &md); err != nil {
			return "", fmt.Errorf("richtext: decode markdown body: %w", err)
		}
		out, err := RenderMarkdown(md)
		if err != nil || out == "" {
			return out, err
		}
		return r.wrapDiv(out), nil
	}
	blocks, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return r.HTML(blocks), nil
}

func (r Renderer) wrapDiv(inner template.HTML) template.HTML {
	open := "<div>"
	if r.Class != "" {
		open = `<div class="` + template.HTMLEscapeString(r.Class) + `">`
	}
	return template.HTML(open) + inner + "</div>"
}

// BodyText is the plain text of a rich_body field, for read-time estimates
// and feed summaries.
func BodyText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var md string
		if json.Unmarshal(raw, &md) == nil {
			return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(md))
		}
		return ""
	}
	blocks, err := Parse(raw)
	if err != nil {
		return ""
	}
	return Text(blocks)
}
