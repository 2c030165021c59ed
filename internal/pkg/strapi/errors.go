package strapi

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is returned for any non-2xx CMS response. Body is the raw
// response text.
type FetchError struct {
	Status     int
	StatusText string
	URL        string
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("strapi: fetch %s failed: %d %s", e.URL, e.Status, e.StatusText)
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}

// IsNotFound reports whether the CMS answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
