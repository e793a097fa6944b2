// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clanboard/api/internal/platform/middleware"
)

// corsConfig is a minimal [middleware.AppConfig] for CORS tests.
type corsConfig struct {
	development  bool
	extraOrigins []string
}

func (c *corsConfig) IsDevelopment() bool           { return c.development }
func (c *corsConfig) ExtraAllowedOrigins() []string { return c.extraOrigins }

func corsProbe(t *testing.T, cfg *corsConfig, origin string) *httptest.ResponseRecorder {
	t.Helper()

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	if origin != "" {
		request.Header.Set("Origin", origin)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestCORS_ProductionOrigins verifies the production allow check: own-domain
origins and explicitly configured extras pass, everything else is denied
the CORS headers.
*/
func TestCORS_ProductionOrigins(t *testing.T) {
	cfg := &corsConfig{
		development:  false,
		extraOrigins: []string{"https://panel.example.com"},
	}

	// 1. Own domain is always allowed
	recorder := corsProbe(t, cfg, "https://app.clanboard.app")
	assert.Equal(t, "https://app.clanboard.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	// 2. A configured extra origin is allowed
	recorder = corsProbe(t, cfg, "https://panel.example.com")
	assert.Equal(t, "https://panel.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))

	// 3. Anything else is denied
	recorder = corsProbe(t, cfg, "https://evil.example.com")
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	// 4. No Origin header means no CORS processing at all
	recorder = corsProbe(t, cfg, "")
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestCORS_Development verifies that development mode reflects any origin.
*/
func TestCORS_Development(t *testing.T) {
	cfg := &corsConfig{development: true}

	recorder := corsProbe(t, cfg, "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}

/*
TestCORS_Preflight verifies that OPTIONS requests short-circuit with 204.
*/
func TestCORS_Preflight(t *testing.T) {
	cfg := &corsConfig{development: true}

	handler := middleware.CORS(cfg)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		t.Fatal("pre-flight request must not reach the next handler")
	}))

	request := httptest.NewRequest(http.MethodOptions, "/login/", nil)
	request.Header.Set("Origin", "http://localhost:3000")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
