package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tote-builder-backend/internal/mw"
	"tote-builder-backend/internal/quote"
	"tote-builder-backend/internal/rack"
	"tote-builder-backend/internal/session"
)

// sessionResponse is the session plus everything derived from it.
type sessionResponse struct {
	*session.State
	Estimate       rack.Configuration `json:"estimate"`
	EstimateText   string             `json:"estimateText"`
	QuoteTotal     float64            `json:"quoteTotal"`
	QuoteTotalText string             `json:"quoteTotalText"`
	CanRequest     bool               `json:"canRequest"`
}

func (h *Handler) view(s *session.State) sessionResponse {
	cfg := s.Estimate(h.catalog)
	total := s.QuoteTotal()
	return sessionResponse{
		State:          s,
		Estimate:       cfg,
		EstimateText:   quote.Money(cfg.Estimate),
		QuoteTotal:     total,
		QuoteTotalText: quote.Money(total),
		CanRequest:     len(s.Items) > 0,
	}
}

// CreateSession starts a new visitor session and binds it to the cookie.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	if err := mw.SetSessionID(c, s.ID); err != nil {
		h.sessions.Delete(s.ID)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.view(s))
}

// GetSession returns the visitor session with its live estimate.
func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(mw.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

// PatchBuild updates the build form. Invalid options leave the form unchanged.
func (h *Handler) PatchBuild(c *gin.Context) {
	var patch buildPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.sessions.Update(mw.SessionID(c), func(s *session.State) error {
		patch.apply(&s.Build)
		return s.Build.Validate(h.catalog)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

type addItemResponse struct {
	Item        session.QuoteLineItem `json:"item"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Session     sessionResponse       `json:"session"`
}

// AddItem snapshots the current build onto the quote list.
func (h *Handler) AddItem(c *gin.Context) {
	var item session.QuoteLineItem
	s, err := h.sessions.Update(mw.SessionID(c), func(s *session.State) error {
		var err error
		item, err = s.AddToQuote(h.catalog)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addItemResponse{
		Item:        item,
		Title:       "Added to quote",
		Description: item.Title + " • Est. " + quote.Money(item.EstTotal),
		Session:     h.view(s),
	})
}

// RemoveItem drops a line item from the quote list.
func (h *Handler) RemoveItem(c *gin.Context) {
	id := c.Param("id")
	s, err := h.sessions.Update(mw.SessionID(c), func(s *session.State) error {
		return s.RemoveItem(id)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

type stepRequest struct {
	Step session.Step `json:"step" binding:"required"`
}

// PutStep navigates between the build, quote and request steps.
func (h *Handler) PutStep(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.sessions.Update(mw.SessionID(c), func(s *session.State) error {
		if req.Step == session.StepBuild {
			s.StartNewBuild()
			return nil
		}
		return s.GoTo(req.Step)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

type contactPatch struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Zip   *string `json:"zip"`
}

type requestPatch struct {
	Contact       contactPatch `json:"contact"`
	PreferredDate *string      `json:"preferredDate"`
	Notes         *string      `json:"notes"`
}

func (p requestPatch) apply(s *session.State) {
	ct := s.Contact
	setIfPresent(&ct.First, p.Contact.First)
	setIfPresent(&ct.Last, p.Contact.Last)
	setIfPresent(&ct.Email, p.Contact.Email)
	setIfPresent(&ct.Phone, p.Contact.Phone)
	setIfPresent(&ct.Zip, p.Contact.Zip)

	date, notes := s.PreferredDate, s.Notes
	setIfPresent(&date, p.PreferredDate)
	setIfPresent(&notes, p.Notes)
	s.SetRequestDetails(ct, date, notes)
}

func setIfPresent(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

// PatchRequest stores the contact block, preferred date and notes.
func (h *Handler) PatchRequest(c *gin.Context) {
	var patch requestPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.sessions.Update(mw.SessionID(c), func(s *session.State) error {
		patch.apply(s)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

type submitResponse struct {
	ID          string `json:"id"`
	Delivered   bool   `json:"delivered"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Submit sends the quote request for the visitor's session. A failure keeps
// the quote list and contact details so the visitor can retry.
func (h *Handler) Submit(c *gin.Context) {
	id := mw.SessionID(c)
	s, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.submitter.Submit(c.Request.Context(), quote.Request{
		Contact:       s.Contact,
		PreferredDate: s.PreferredDate,
		Notes:         s.Notes,
		Items:         s.Items,
	})
	if err != nil {
		if errors.Is(err, quote.ErrMissingContact) || errors.Is(err, quote.ErrNoItems) {
			respondError(c, err)
			return
		}
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":       err.Error(),
			"title":       "Submit failed",
			"description": err.Error(),
		})
		return
	}

	// The session may have expired while the webhook was called.
	if _, err := h.sessions.Update(id, func(s *session.State) error {
		s.MarkSubmitted(time.Now().UTC())
		return nil
	}); err != nil {
		log.Printf("Could not mark session %s as submitted: %v", id, err)
	}

	c.JSON(http.StatusOK, submitResponse{
		ID:          res.ID,
		Delivered:   res.Delivered,
		Title:       "Request sent",
		Description: "We got it. We'll follow up with a custom quote.",
	})
}

// EndSession forgets the visitor session and clears the cookie.
func (h *Handler) EndSession(c *gin.Context) {
	h.sessions.Delete(mw.SessionID(c))
	if err := mw.ClearSession(c); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
