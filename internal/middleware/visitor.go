package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	VisitorCookie = "rwt_vid"
	visitorKey    = "visitor_id"
	visitorMaxAge = 365 * 24 * 60 * 60
)

// Visitor gives every browser an anonymous id cookie. Engagement uses it
// to remember likes without accounts.
func Visitor(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || !validVisitorID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, id, visitorMaxAge, "/", "", secure, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

// VisitorID returns the id set by Visitor, or "" outside it.
func VisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

func validVisitorID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
