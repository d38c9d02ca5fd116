package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes bounds request bodies after decompression.
const DefaultMaxBodyBytes int64 = 1 << 20

type limitedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (l limitedReadCloser) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DecompressRequest transparently handles gzip encoded requests and caps every
// body at maxBytes. Oversized bodies fail to decode and are answered with 400 by handlers.
func DecompressRequest(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
			c.Next()
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		c.Request.Body = limitedReadCloser{
			Reader:  io.LimitReader(reader, maxBytes),
			closers: []io.Closer{reader, originalBody},
		}
		c.Request.Header.Del("Content-Encoding")
		c.Next()
	}
}
