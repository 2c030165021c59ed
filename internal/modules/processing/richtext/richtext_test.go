package richtext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
  {"type":"paragraph","children":[
    {"type":"text","text":"Plain "},
    {"type":"text","text":"loud","bold":true,"italic":true,"code":true},
    {"type":"link","url":"https://site.example/opinions/x","children":[{"type":"text","text":"inside"}]},
    {"type":"link","url":"https://other.example/a","children":[{"type":"text","text":"outside","underline":true}]}
  ]},
  {"type":"heading","level":3,"children":[{"type":"text","text":"Section"}]},
  {"type":"list","format":"ordered","children":[
    {"type":"list-item","children":[{"type":"text","text":"one"}]},
    {"type":"list-item","children":[{"type":"text","text":"two","strikethrough":true}]}
  ]},
  {"type":"image","image":{"name":"pic.jpg","url":"/uploads/pic.jpg","caption":"A caption"},"children":[{"type":"text","text":""}]},
  {"type":"quote","children":[{"type":"text","text":"Said someone"}]},
  {"type":"code","children":[{"type":"text","text":"<b>not bold</b>"}]},
  {"type":"table","children":[]}
]`

func renderer() Renderer {
	return Renderer{SiteURL: "https://site.example", CMSBaseURL: "https://cms.example/", Class: "prose"}
}

func parseDoc(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestRenderOneNodePerBlock(t *testing.T) {
	blocks, err := Parse(json.RawMessage(sample))
	require.NoError(t, err)
	require.Len(t, blocks, 7)

	r := renderer()
	assert.Len(t, r.Nodes(blocks), len(blocks))

	doc := parseDoc(t, string(r.HTML(blocks)))
	root := doc.Find("body > div.prose")
	require.Equal(t, 1, root.Length())
	assert.Equal(t, len(blocks), root.Children().Length())
}

func TestRenderBlocks(t *testing.T) {
	blocks, err := Parse(json.RawMessage(sample))
	require.NoError(t, err)
	doc := parseDoc(t, string(renderer().HTML(blocks)))

	t.Run("marks nest in fixed order", func(t *testing.T) {
		sel := doc.Find("p > code > em > strong")
		require.Equal(t, 1, sel.Length())
		assert.Equal(t, "loud", sel.Text())
		assert.Equal(t, "u", goquery.NodeName(doc.Find("a[target] > u")))
	})

	t.Run("internal link strips site url", func(t *testing.T) {
		a := doc.Find(`a:contains("inside")`)
		href, _ := a.Attr("href")
		assert.Equal(t, "/opinions/x", href)
		_, hasTarget := a.Attr("target")
		assert.False(t, hasTarget)
	})

	t.Run("external link opens a new tab", func(t *testing.T) {
		a := doc.Find(`a:contains("outside")`)
		href, _ := a.Attr("href")
		assert.Equal(t, "https://other.example/a", href)
		assert.Equal(t, "_blank", a.AttrOr("target", ""))
		assert.Equal(t, "noopener noreferrer", a.AttrOr("rel", ""))
	})

	t.Run("heading level and size", func(t *testing.T) {
		h := doc.Find("h3")
		assert.Equal(t, "Section", h.Text())
		assert.Contains(t, h.AttrOr("class", ""), "text-xl md:text-2xl")
	})

	t.Run("ordered list", func(t *testing.T) {
		assert.Equal(t, 2, doc.Find("ol.list-decimal > li").Length())
		assert.Equal(t, "two", doc.Find("ol li s").Text())
	})

	t.Run("image defaults and caption", func(t *testing.T) {
		img := doc.Find("figure > img")
		assert.Equal(t, "https://cms.example/uploads/pic.jpg", img.AttrOr("src", ""))
		assert.Equal(t, "800", img.AttrOr("width", ""))
		assert.Equal(t, "450", img.AttrOr("height", ""))
		assert.Equal(t, "pic.jpg", img.AttrOr("alt", ""))
		assert.Equal(t, "A caption", doc.Find("figure > figcaption").Text())
	})

	t.Run("quote and code", func(t *testing.T) {
		assert.Equal(t, "Said someone", doc.Find("blockquote").Text())
		assert.Equal(t, "<b>not bold</b>", doc.Find("pre > code").Text())
		assert.Equal(t, 0, doc.Find("pre b").Length())
	})

	t.Run("unknown type is visible", func(t *testing.T) {
		assert.Equal(t, "Unsupported block type: table", doc.Find("p.text-red-500").Text())
	})
}

func TestLinks(t *testing.T) {
	r := renderer()
	cases := []struct {
		url      string
		href     string
		external bool
	}{
		{"/about", "/about", false},
		{"https://site.example", "/", false},
		{"https://site.example/", "/", false},
		{"https://else.example", "https://else.example", true},
		{"javascript:alert(1)", "#", true},
		{"//evil.example/x", "//evil.example/x", true},
		{"https://site.example.com/x", "https://site.example.com/x", true},
		{"https://site.examplefoo/x", "https://site.examplefoo/x", true},
		{"https://site.example//evil.example", "https://site.example//evil.example", true},
		{"https://site.example/news/a", "/news/a", false},
		{"https://site.example?ref=mail", "/?ref=mail", false},
		{"https://site.example#top", "/#top", false},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			blocks := []Block{{Type: TypeParagraph, Children: []Node{{Type: TypeLink, URL: tc.url, Children: []Node{{Text: "x"}}}}}}
			a := parseDoc(t, string(r.HTML(blocks))).Find("a")
			assert.Equal(t, tc.href, a.AttrOr("href", ""))
			_, hasTarget := a.Attr("target")
			assert.Equal(t, tc.external, hasTarget)
		})
	}

	t.Run("no site url means only relative links are internal", func(t *testing.T) {
		blocks := []Block{{Type: TypeParagraph, Children: []Node{{Type: TypeLink, URL: "https://x.example", Children: []Node{{Text: "x"}}}}}}
		a := parseDoc(t, string(Renderer{}.HTML(blocks))).Find("a")
		assert.Equal(t, "_blank", a.AttrOr("target", ""))
	})
}

func TestHeadingLevels(t *testing.T) {
	r := Renderer{}
	for level := 1; level <= 6; level++ {
		n := r.Nodes([]Block{{Type: TypeHeading, Level: level}})[0]
		assert.Equal(t, "h"+string(rune('0'+level)), n.Data)
	}
	assert.Equal(t, "h6", r.Nodes([]Block{{Type: TypeHeading, Level: 9}})[0].Data)
	assert.Equal(t, "h1", r.Nodes([]Block{{Type: TypeHeading}})[0].Data)
}

func TestBody(t *testing.T) {
	r := renderer()

	t.Run("markdown string", func(t *testing.T) {
		raw, _ := json.Marshal("# Title\n\n**bold** text <script>alert(1)</script>")
		out, err := r.Body(raw)
		require.NoError(t, err)
		doc := parseDoc(t, string(out))
		assert.Equal(t, "Title", doc.Find("div.prose h1").Text())
		assert.Equal(t, "bold", doc.Find("strong").Text())
		assert.Zero(t, doc.Find("script").Length())
	})

	t.Run("blocks", func(t *testing.T) {
		out, err := r.Body(json.RawMessage(`[{"type":"paragraph","children":[{"text":"hi"}]}]`))
		require.NoError(t, err)
		assert.Equal(t, `<div class="prose"><p class="mb-4 leading-relaxed">hi</p></div>`, string(out))
	})

	t.Run("empty", func(t *testing.T) {
		for _, raw := range []string{"", "null", " [] "} {
			out, err := r.Body(json.RawMessage(raw))
			require.NoError(t, err)
			assert.Empty(t, out)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := r.Body(json.RawMessage(`{"type":1}`))
		assert.Error(t, err)
	})
}

func TestText(t *testing.T) {
	blocks, err := Parse(json.RawMessage(sample))
	require.NoError(t, err)
	text := Text(blocks)
	assert.Contains(t, text, "Plain loud")
	assert.Contains(t, text, "A caption")
	assert.Contains(t, text, "one two")
	assert.Equal(t, "hi", BodyText(json.RawMessage(`[{"type":"paragraph","children":[{"text":"hi"}]}]`)))
}
