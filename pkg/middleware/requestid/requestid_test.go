package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, header string) (string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(headerKey, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return seen, w.Header().Get(headerKey)
}

func TestMiddlewareGeneratesID(t *testing.T) {
	seen, echoed := serve(t, "")
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, echoed)
}

func TestMiddlewareReusesInboundID(t *testing.T) {
	seen, echoed := serve(t, "trace-123")
	assert.Equal(t, "trace-123", seen)
	assert.Equal(t, "trace-123", echoed)
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	seen, _ := serve(t, strings.Repeat("x", maxInboundLength+1))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
