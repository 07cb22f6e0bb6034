package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"tote-builder-backend/internal/catalog"
	"tote-builder-backend/internal/quote"
	"tote-builder-backend/internal/session"
	"tote-builder-backend/internal/store"
)

// QuoteSubmitter delivers a visitor's quote request.
type QuoteSubmitter interface {
	Submit(ctx context.Context, r quote.Request) (*quote.Result, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	webpush   *webpush.Options
	catalog   *catalog.Catalog
	sessions  *session.Manager
	submitter QuoteSubmitter
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, cat *catalog.Catalog, sessions *session.Manager, submitter QuoteSubmitter) *Handler {
	return &Handler{
		store:     s,
		webpush:   webpushOptions,
		catalog:   cat,
		sessions:  sessions,
		submitter: submitter,
	}
}

// notice is the error body shown to the visitor as a toast.
type notice struct {
	status      int
	title       string
	description string
}

// respondError maps domain errors onto HTTP statuses and toast bodies.
func respondError(c *gin.Context, err error) {
	n := noticeFor(err)
	if n.status == http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
	}

	body := gin.H{"error": err.Error()}
	if n.title != "" {
		body["title"] = n.title
		body["description"] = n.description
	}
	c.AbortWithStatusJSON(n.status, body)
}

func noticeFor(err error) notice {
	var webhookErr *quote.WebhookError
	switch {
	case errors.Is(err, quote.ErrMissingContact):
		return notice{http.StatusBadRequest, "Missing info", "Please add name, email, phone, and ZIP."}
	case errors.Is(err, quote.ErrNoItems):
		return notice{http.StatusBadRequest, "No items", "Add at least one configuration to your quote."}
	case errors.As(err, &webhookErr):
		return notice{http.StatusBadGateway, "Submit failed", err.Error()}
	case errors.Is(err, session.ErrNotFound):
		return notice{http.StatusNotFound, "Session expired", "Start a new build to continue."}
	case errors.Is(err, session.ErrItemNotFound), errors.Is(err, store.ErrNotFound):
		return notice{status: http.StatusNotFound}
	case errors.Is(err, session.ErrInfeasible):
		return notice{http.StatusConflict, "Doesn't fit", "This configuration does not fit the wall. Try a larger wall or another orientation."}
	case errors.Is(err, session.ErrStepLocked):
		return notice{status: http.StatusConflict}
	case errors.Is(err, session.ErrUnknownStep), errors.Is(err, session.ErrUnknownOption):
		return notice{status: http.StatusBadRequest}
	default:
		return notice{status: http.StatusInternalServerError}
	}
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
