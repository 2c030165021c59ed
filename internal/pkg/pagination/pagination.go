package pagination

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage = 1

	// MaxLinks is how many numbered page links a window shows.
	MaxLinks = 5
)

// PageFromQuery parses ?page=, defaulting to 1 and never below 1.
func PageFromQuery(c *gin.Context) int {
	page := parseIntOr(c.DefaultQuery("page", "1"), DefaultPage)
	if page < 1 {
		page = 1
	}
	return page
}

// PageURL links to page of basePath keeping every other query parameter.
// Page 1 carries no page parameter at all.
func PageURL(basePath string, query url.Values, page int) string {
	params := url.Values{}
	for k, v := range query {
		params[k] = append([]string(nil), v...)
	}
	if page <= 1 {
		params.Del("page")
	} else {
		params.Set("page", strconv.Itoa(page))
	}
	if qs := params.Encode(); qs != "" {
		return basePath + "?" + qs
	}
	return basePath
}

// Window is the visible slice of page numbers around Current.
type Window struct {
	Current       int
	Total         int
	Pages         []int
	FirstEllipsis bool
	LastEllipsis  bool
}

// NewWindow returns nil when there is at most one page.
func NewWindow(current, total int) *Window {
	if total <= 1 {
		return nil
	}
	current = min(max(current, 1), total)
	half := MaxLinks / 2

	start := max(1, current-half)
	end := min(total, current+half)
	if current <= half {
		end = min(total, MaxLinks)
	}
	if current+half >= total {
		start = max(1, total-MaxLinks+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return &Window{
		Current:       current,
		Total:         total,
		Pages:         pages,
		FirstEllipsis: start > 2,
		LastEllipsis:  end < total-1,
	}
}

func (w *Window) HasPrev() bool { return w.Current > 1 }
func (w *Window) HasNext() bool { return w.Current < w.Total }

// Item is one rendered control: a numbered page, a nav arrow or an ellipsis.
type Item struct {
	Label    string
	Aria     string
	URL      string
	Active   bool
	Disabled bool
	Ellipsis bool
}

// Controls lays out the full control strip in render order, or nil when
// there is nothing to paginate.
func Controls(basePath string, query url.Values, current, total int) []Item {
	w := NewWindow(current, total)
	if w == nil {
		return nil
	}
	link := func(page int) string { return PageURL(basePath, query, page) }

	items := []Item{
		{Label: "«", Aria: "Go to first page", URL: link(1), Disabled: !w.HasPrev()},
		{Label: "‹", Aria: "Go to previous page", URL: link(w.Current - 1), Disabled: !w.HasPrev()},
	}
	if w.FirstEllipsis {
		items = append(items,
			Item{Label: "1", Aria: "Go to page 1", URL: link(1)},
			Item{Label: "...", Ellipsis: true},
		)
	}
	for _, p := range w.Pages {
		n := strconv.Itoa(p)
		it := Item{Label: n, Aria: "Go to page " + n, URL: link(p)}
		if p == w.Current {
			it.Active = true
			it.Aria = "Page " + n
		}
		items = append(items, it)
	}
	if w.LastEllipsis {
		last := strconv.Itoa(w.Total)
		items = append(items,
			Item{Label: "...", Ellipsis: true},
			Item{Label: last, Aria: "Go to page " + last, URL: link(w.Total)},
		)
	}
	items = append(items,
		Item{Label: "›", Aria: "Go to next page", URL: link(w.Current + 1), Disabled: !w.HasNext()},
		Item{Label: "»", Aria: "Go to last page", URL: link(w.Total), Disabled: !w.HasNext()},
	)
	return items
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
