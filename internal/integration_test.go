package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tote-builder-backend/config"
	"tote-builder-backend/internal/api"
	"tote-builder-backend/internal/catalog"
	"tote-builder-backend/internal/db"
	"tote-builder-backend/internal/model"
	"tote-builder-backend/internal/notification"
	"tote-builder-backend/internal/quote"
	"tote-builder-backend/internal/session"
	"tote-builder-backend/internal/store"
)

// TestQuoteRequestLifecycle drives a visitor from an empty session to a
// delivered quote request and verifies the webhook body, the operator log in
// the database and the queued operator alert.
func TestQuoteRequestLifecycle(t *testing.T) {
	// --- Test Setup ---

	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	appStore := store.NewGormStore(testDB)

	var received quote.Payload
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Webhook-Token"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{
			RateLimitPerSec:   1000,
			RateLimitBurst:    1000,
			SubmitLimitPerMin: 1e7,
			CacheTTL:          time.Minute,
			SessionSecret:     "integration",
			SessionTTL:        time.Hour,
		},
		Webhook: config.WebhookConfig{
			URL:     webhook.URL,
			Timeout: 5 * time.Second,
			Headers: map[string]string{"X-Webhook-Token": "secret"},
			Source:  "tote-builder-v1",
		},
	}

	cat := catalog.Default()
	webpushOptions := &webpush.Options{}
	// The pool is not started so the queued alert can be inspected.
	pool := notification.NewWorkerPool(1, appStore, webpushOptions)
	submitter := quote.NewSubmitter(cfg.Webhook, appStore, pool)
	handler := api.NewHandler(appStore, webpushOptions, cat, session.NewManager(cat, cfg.Server.SessionTTL), submitter)
	router := api.NewRouter(&cfg.Server, &cfg.Push, handler)

	var cookie *http.Cookie
	call := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// --- Build two configurations ---

	w := call(http.MethodPost, "/api/session", "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, w.Result().Cookies())
	cookie = w.Result().Cookies()[0]

	w = call(http.MethodPost, "/api/session/items", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, http.StatusOK, call(http.MethodPut, "/api/session/step", `{"step":"build"}`).Code)
	w = call(http.MethodPatch, "/api/session/build", `{"wallWidthIn":60,"wallHeightIn":"3' 4\"","addons":{"totes":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(http.MethodPost, "/api/session/items", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// --- Request step ---

	require.Equal(t, http.StatusOK, call(http.MethodPut, "/api/session/step", `{"step":"request"}`).Code)
	w = call(http.MethodPatch, "/api/session/request", `{"contact":{"first":" Grace ","last":"Hopper","email":"grace@example.com","phone":"555-0101","zip":"10001"},"preferredDate":"2026-11-02","notes":"Basement"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(http.MethodPost, "/api/session/submit", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		ID        string `json:"id"`
		Delivered bool   `json:"delivered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Delivered)

	// --- Verify the webhook body ---

	assert.Equal(t, "tote-builder-v1", received.Source)
	assert.Equal(t, "Grace", received.Contact.First)
	require.NotNil(t, received.PreferredDate)
	assert.Equal(t, "2026-11-02", *received.PreferredDate)
	require.Len(t, received.Items, 2)
	assert.Equal(t, "Tote rack — 2 × 2 bays", received.Items[0].Title, "newest item comes first")
	assert.InDelta(t, 263.0, received.Items[0].EstTotal, 1e-9)
	assert.Equal(t, []string{"delivery", "totes"}, received.Items[0].Meta.Addons)
	assert.Equal(t, "Tote rack — 5 × 5 bays", received.Items[1].Title)
	assert.InDelta(t, 950.0, received.Items[1].EstTotal, 1e-9)
	assert.InDelta(t, 1213.0, received.Estimate, 1e-9)

	// --- Verify the operator log ---

	var sub model.QuoteSubmission
	err = testDB.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	}).First(&sub, "id = ?", result.ID).Error
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionSent, sub.Status)
	assert.Equal(t, "grace@example.com", sub.Email)
	assert.Empty(t, sub.Error)
	require.Len(t, sub.Items, 2)
	assert.Equal(t, 4, sub.Items[0].TotalBays)
	assert.Equal(t, "delivery,totes", sub.Items[0].Addons)
	assert.Equal(t, 25, sub.Items[1].TotalBays)

	// --- Verify the operator alert ---

	select {
	case alert := <-pool.Jobs():
		assert.Equal(t, result.ID, alert.SubmissionID)
		assert.Equal(t, "New quote request: Grace Hopper · 2 item(s) · Est. $1,213", alert.Body)
	default:
		t.Fatal("expected an operator alert to be queued")
	}

	// The quote list survives a successful submit.
	w = call(http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lastSubmittedAt"`)
	assert.Contains(t, w.Body.String(), `"quoteTotalText":"$1,213"`)
}
