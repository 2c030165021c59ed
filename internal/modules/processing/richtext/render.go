package richtext

import (
	"bytes"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultImageWidth  = 800
	DefaultImageHeight = 450

	placeholderImage = "/images/core/placeholder.jpg"
	linkClass        = "text-rwt-red hover:underline"
)

var headingSizes = [6]string{
	"text-3xl md:text-4xl",
	"text-2xl md:text-3xl",
	"text-xl md:text-2xl",
	"text-lg md:text-xl",
	"text-md md:text-lg",
	"text-base md:text-md",
}

var headingAtoms = [6]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// Renderer turns blocks into HTML nodes. SiteURL decides which links are
// internal; CMSBaseURL prefixes relative image paths.
type Renderer struct {
	SiteURL    string
	CMSBaseURL string
	// Class is set on the wrapping div produced by HTML.
	Class string
}

// Nodes renders exactly one top-level node per block.
func (r Renderer) Nodes(blocks []Block) []*html.Node {
	out := make([]*html.Node, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, r.block(b))
	}
	return out
}

// HTML renders blocks inside a single div.
func (r Renderer) HTML(blocks []Block) template.HTML {
	if len(blocks) == 0 {
		return ""
	}
	root := element(atom.Div)
	if r.Class != "" {
		setAttr(root, "class", r.Class)
	}
	for _, n := range r.Nodes(blocks) {
		root.AppendChild(n)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

func (r Renderer) block(b Block) *html.Node {
	switch b.Type {
	case TypeParagraph:
		return r.withInline(element(atom.P, class("mb-4 leading-relaxed")), b.Children)

	case TypeHeading:
		level := min(max(b.Level, 1), 6)
		cls := "font-bold mb-3 mt-6 " + headingSizes[level-1]
		return r.withInline(element(headingAtoms[level-1], class(cls)), b.Children)

	case TypeList:
		tag, style := atom.Ul, "list-disc"
		if b.Format == FormatOrdered {
			tag, style = atom.Ol, "list-decimal"
		}
		list := element(tag, class("ml-6 mb-4 "+style+" space-y-1"))
		for _, item := range b.Children {
			list.AppendChild(r.withInline(element(atom.Li), item.Children))
		}
		return list

	case TypeImage:
		return r.image(b.Image)

	case TypeQuote:
		return r.withInline(element(atom.Blockquote,
			class("border-l-4 border-rwt-red pl-4 py-2 my-6 italic text-gray-700 bg-gray-50 rounded")), b.Children)

	case TypeCode:
		pre := element(atom.Pre, class("bg-gray-800 text-white p-4 rounded-md overflow-x-auto my-6 text-sm font-mono"))
		code := element(atom.Code)
		if len(b.Children) > 0 {
			code.AppendChild(text(b.Children[0].Text))
		}
		pre.AppendChild(code)
		return pre
	}

	p := element(atom.P, class("text-red-500"))
	p.AppendChild(text("Unsupported block type: " + b.Type))
	return p
}

func (r Renderer) image(img *Image) *html.Node {
	fig := element(atom.Figure, class("my-6"))
	if img == nil {
		img = &Image{}
	}
	width, height := img.Width, img.Height
	if width <= 0 {
		width = DefaultImageWidth
	}
	if height <= 0 {
		height = DefaultImageHeight
	}
	alt := img.AlternativeText
	if alt == "" {
		alt = img.Name
	}
	if alt == "" {
		alt = "Rich text image"
	}
	fig.AppendChild(element(atom.Img,
		attr("src", r.imageURL(img.URL)),
		attr("alt", alt),
		attr("width", strconv.Itoa(width)),
		attr("height", strconv.Itoa(height)),
		attr("loading", "lazy"),
		class("rounded-lg shadow-md mx-auto"),
	))
	if img.Caption != "" {
		caption := element(atom.Figcaption, class("text-center text-sm text-gray-600 mt-2 italic"))
		caption.AppendChild(text(img.Caption))
		fig.AppendChild(caption)
	}
	return fig
}

func (r Renderer) imageURL(u string) string {
	u = strings.TrimSpace(u)
	switch {
	case u == "":
		return placeholderImage
	case strings.HasPrefix(u, "http"):
		return u
	}
	return strings.TrimRight(r.CMSBaseURL, "/") + u
}

func (r Renderer) withInline(parent *html.Node, children []Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(r.inline(c))
	}
	return parent
}

func (r Renderer) inline(n Node) *html.Node {
	if n.Type == TypeLink {
		return r.link(n)
	}
	node := text(n.Text)
	// innermost first: bold, italic, underline, strikethrough, code
	if n.Bold {
		node = wrap(atom.Strong, node)
	}
	if n.Italic {
		node = wrap(atom.Em, node)
	}
	if n.Underline {
		node = wrap(atom.U, node)
	}
	if n.Strikethrough {
		node = wrap(atom.S, node)
	}
	if n.Code {
		node = wrap(atom.Code, node, class("bg-gray-100 text-sm p-0.5 rounded font-mono"))
	}
	return node
}

func (r Renderer) link(n Node) *html.Node {
	var a *html.Node
	if href, ok := r.internalPath(n.URL); ok {
		a = element(atom.A, attr("href", href), class(linkClass))
	} else {
		a = element(atom.A,
			attr("href", externalHref(n.URL)),
			attr("target", "_blank"),
			attr("rel", "noopener noreferrer"),
			class(linkClass),
		)
	}
	return r.withInline(a, n.Children)
}

// internalPath reports whether u points at this site and returns the path
// to link to, "/" when stripping the site URL leaves nothing.
func (r Renderer) internalPath(u string) (string, bool) {
	site := strings.TrimRight(r.SiteURL, "/")
	switch {
	case strings.HasPrefix(u, "//"):
		// scheme-relative, another host
		return "", false
	case strings.HasPrefix(u, "/"):
		return u, true
	case site != "" && strings.HasPrefix(u, site):
		p := strings.TrimPrefix(u, site)
		switch {
		case p == "":
			return "/", true
		case p[0] == '/' && !strings.HasPrefix(p, "//"):
			return p, true
		case p[0] == '?' || p[0] == '#':
			return "/" + p, true
		}
	}
	return "", false
}

// externalHref drops schemes a browser would execute.
func externalHref(u string) string {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "#"
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return parsed.String()
	case "":
		if parsed.Host != "" {
			return parsed.String()
		}
	}
	return "#"
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func wrap(a atom.Atom, child *html.Node, attrs ...html.Attribute) *html.Node {
	n := element(a, attrs...)
	n.AppendChild(child)
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func class(val string) html.Attribute { return attr("class", val) }

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, attr(key, val))
}
