// Package format holds the small text and date helpers used by templates.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	LongDate  = "January 2, 2006"
	ShortDate = "Jan 2, 2006"
	DateTime  = "January 2, 2006, 3:04 PM"

	DefaultWPM = 200
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseDate accepts the date shapes the CMS emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders s with layout, or "" when s is empty or unparseable.
func Date(s, layout string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(layout)
}

func Long(s string) string  { return Date(s, LongDate) }
func Short(s string) string { return Date(s, ShortDate) }

// ReadTime estimates reading time as "N min read". Empty text is 1 minute.
func ReadTime(text string, wpm int) string {
	words := len(strings.Fields(text))
	if words == 0 {
		return "1 min read"
	}
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	return fmt.Sprintf("%d min read", int(math.Ceil(float64(words)/float64(wpm))))
}

// Minutes renders a stored read_time, falling back to an estimate from text.
func Minutes(stored int, text string) string {
	if stored > 0 {
		return fmt.Sprintf("%d min read", stored)
	}
	return ReadTime(text, DefaultWPM)
}

// Truncate cuts s to max runes and appends "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}

var (
	spaceRun  = regexp.MustCompile(`\s+`)
	nonWord   = regexp.MustCompile(`[^\w-]+`)
	dashRun   = regexp.MustCompile(`--+`)
	foldMarks = runes.Remove(runes.In(unicode.Mn))
)

// Slugify lower-cases s, folds accents, turns spaces into "-" and drops
// any other non-word character.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(transform.Chain(norm.NFD, foldMarks, norm.NFC), s); err == nil {
		s = folded
	}
	s = spaceRun.ReplaceAllString(s, "-")
	s = nonWord.ReplaceAllString(s, "")
	return dashRun.ReplaceAllString(s, "-")
}
