package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tote-builder-backend/config"
	"tote-builder-backend/internal/model"
	"tote-builder-backend/internal/notification"
)

// Recorder persists the operator-side log of submissions.
type Recorder interface {
	RecordSubmission(ctx context.Context, sub *model.QuoteSubmission) error
}

// Alerter queues an operator alert.
type Alerter interface {
	Dispatch(alert notification.Alert)
}

// Result describes a successful submission.
type Result struct {
	ID        string  `json:"id"`
	Delivered bool    `json:"delivered"`
	Payload   Payload `json:"payload"`
}

// Submitter validates quote requests and forwards them to the webhook.
type Submitter struct {
	cfg      config.WebhookConfig
	client   *http.Client
	recorder Recorder
	alerter  Alerter
	now      func() time.Time
}

// NewSubmitter creates a submitter. recorder and alerter may be nil.
func NewSubmitter(cfg config.WebhookConfig, recorder Recorder, alerter Alerter) *Submitter {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Webhook will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Submitter{
		cfg:      cfg,
		client:   &http.Client{Transport: transport, Timeout: cfg.Timeout},
		recorder: recorder,
		alerter:  alerter,
		now:      time.Now,
	}
}

// Submit validates the request and delivers it once. There is no retry: a
// failed delivery is returned to the caller, which keeps the visitor's quote
// list so they can submit again.
func (s *Submitter) Submit(ctx context.Context, r Request) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	payload := BuildPayload(s.cfg.Source, r, s.now())

	status := model.SubmissionSent
	var sendErr error
	if s.cfg.URL == "" {
		status = model.SubmissionLogged
		s.logPayload(payload)
	} else if sendErr = s.post(ctx, payload); sendErr != nil {
		status = model.SubmissionFailed
		log.Printf("Quote request %s failed: %v", id, sendErr)
	}

	s.record(ctx, id, payload, status, sendErr)

	if sendErr != nil {
		return nil, sendErr
	}

	if s.alerter != nil {
		s.alerter.Dispatch(alertFor(id, payload))
	}

	log.Printf("Quote request %s accepted (%s, %d items, est. %s)", id, status, len(payload.Items), Money(payload.Estimate))
	return &Result{ID: id, Delivered: status == model.SubmissionSent, Payload: payload}, nil
}

func (s *Submitter) post(ctx context.Context, payload Payload) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal quote payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range s.cfg.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &WebhookError{Status: resp.StatusCode}
	}
	return nil
}

func (s *Submitter) logPayload(payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("QUOTE_REQUEST_PAYLOAD (unencodable): %v", err)
		return
	}
	log.Printf("QUOTE_REQUEST_PAYLOAD %s", body)
}

// record stores the outcome. A storage failure never fails the submission.
func (s *Submitter) record(ctx context.Context, id string, payload Payload, status string, sendErr error) {
	if s.recorder == nil {
		return
	}

	sub := toSubmission(id, payload, status, sendErr)
	if err := s.recorder.RecordSubmission(ctx, sub); err != nil {
		log.Printf("Error recording quote request %s: %v", id, err)
	}
}

func toSubmission(id string, payload Payload, status string, sendErr error) *model.QuoteSubmission {
	createdAt, err := time.Parse(createdAtLayout, payload.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}

	sub := &model.QuoteSubmission{
		ID:            id,
		Source:        payload.Source,
		FirstName:     payload.Contact.First,
		LastName:      payload.Contact.Last,
		Email:         payload.Contact.Email,
		Phone:         payload.Contact.Phone,
		Zip:           payload.Contact.Zip,
		PreferredDate: payload.PreferredDate,
		Notes:         payload.Notes,
		Estimate:      payload.Estimate,
		Status:        status,
		CreatedAt:     createdAt,
		Items:         make([]model.QuoteSubmissionItem, len(payload.Items)),
	}
	if sendErr != nil {
		sub.Error = sendErr.Error()
	}

	for i, it := range payload.Items {
		sub.Items[i] = model.QuoteSubmissionItem{
			SubmissionID: id,
			LineItemID:   it.ID,
			Position:     i,
			Title:        it.Title,
			EstTotal:     it.EstTotal,
			WallWidthIn:  it.Meta.WallWidthIn,
			WallHeightIn: it.Meta.WallHeightIn,
			ToteType:     string(it.Meta.ToteType),
			Orientation:  string(it.Meta.Orientation),
			Cols:         it.Meta.Cols,
			Rows:         it.Meta.Rows,
			TotalBays:    it.Meta.TotalBays,
			Addons:       strings.Join(it.Meta.Addons, ","),
		}
	}
	return sub
}

func alertFor(id string, payload Payload) notification.Alert {
	name := strings.TrimSpace(payload.Contact.First + " " + payload.Contact.Last)
	return notification.Alert{
		SubmissionID: id,
		Title:        "New quote request",
		Body: fmt.Sprintf("New quote request: %s · %d item(s) · Est. %s",
			name, len(payload.Items), Money(payload.Estimate)),
	}
}
