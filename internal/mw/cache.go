package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedPage struct {
	status  int
	headers http.Header
	body    []byte
}

type teeWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w teeWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w teeWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests from an in-memory cache keyed by
// request URI. Mutating methods pass through untouched so POSTed reports
// and hardware updates always hit the handlers.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, found := store.Get(key); found {
			page := hit.(cachedPage)
			c.Writer.WriteHeader(page.status)
			for k, v := range page.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Write(page.body)
			c.Abort()
			return
		}

		tw := &teeWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = tw

		c.Next()

		// Only cache successful responses
		if tw.Status() >= 200 && tw.Status() < 300 {
			store.Set(key, cachedPage{
				status:  tw.Status(),
				headers: tw.Header().Clone(),
				body:    tw.body.Bytes(),
			}, duration)
		}
	}
}
