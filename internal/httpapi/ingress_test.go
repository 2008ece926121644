package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dexie-space/splash/internal/httpapi"
	"github.com/dexie-space/splash/internal/kernel"
)

func TestIngressAcceptsWellFormedBody(t *testing.T) {
	cmds := make(chan kernel.Command, 1)
	router := httpapi.NewIngressRouter(cmds)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(`{"offer":"offer1qqqqqqqqqqqqqqqqqqqqqq"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case cmd := <-cmds:
		assert.Equal(t, "offer1qqqqqqqqqqqqqqqqqqqqqq", cmd.Offer)
	default:
		t.Fatal("expected a command to have been queued")
	}
}

func TestIngressRejectsMalformedJSON(t *testing.T) {
	cmds := make(chan kernel.Command, 1)
	router := httpapi.NewIngressRouter(cmds)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
