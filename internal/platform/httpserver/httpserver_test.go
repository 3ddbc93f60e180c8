package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	h := http.NotFoundHandler()

	srv := New(":9090", h, 10*time.Second)
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.WriteTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)

	srv = New(":9090", h, 0)
	assert.Equal(t, 35*time.Second, srv.WriteTimeout)
}
