// Package quote turns a visitor's quote list into a request for the operator
// and delivers it to the configured webhook.
package quote

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tote-builder-backend/internal/session"
)

var (
	ErrMissingContact = errors.New("please add name, email, phone, and ZIP")
	ErrNoItems        = errors.New("add at least one configuration to your quote")
)

// WebhookError is a non-2xx reply from the quote webhook.
type WebhookError struct {
	Status int
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook error %d", e.Status)
}

// createdAtLayout matches what browsers produce for Date.toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Request is what the visitor submits from the request step.
type Request struct {
	Contact       session.Contact
	PreferredDate string
	Notes         string
	Items         []session.QuoteLineItem
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Source        string                  `json:"source"`
	CreatedAt     string                  `json:"createdAt"`
	Contact       session.Contact         `json:"contact"`
	PreferredDate *string                 `json:"preferredDate"`
	Notes         string                  `json:"notes"`
	Estimate      float64                 `json:"estimate"`
	Items         []session.QuoteLineItem `json:"items"`
}

// Validate checks the request locally. The contact is checked before the
// item list, and nothing is sent when either check fails.
func (r Request) Validate() error {
	if err := binding.Validator.ValidateStruct(r.Contact.Trimmed()); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingContact, err)
	}
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	return nil
}

// BuildPayload assembles the webhook body. Estimate is the sum of the frozen
// line item totals.
func BuildPayload(source string, r Request, now time.Time) Payload {
	var preferred *string
	if d := strings.TrimSpace(r.PreferredDate); d != "" {
		preferred = &d
	}

	var estimate float64
	for _, it := range r.Items {
		estimate += it.EstTotal
	}

	return Payload{
		Source:        source,
		CreatedAt:     now.UTC().Format(createdAtLayout),
		Contact:       r.Contact.Trimmed(),
		PreferredDate: preferred,
		Notes:         r.Notes,
		Estimate:      estimate,
		Items:         r.Items,
	}
}

var usd = message.NewPrinter(language.AmericanEnglish)

// Money formats a dollar amount the way the configurator displays it:
// whole dollars with thousands separators, e.g. $1,025.
func Money(v float64) string {
	rounded := math.Round(v)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return usd.Sprintf("%s$%v", sign, int64(rounded))
}
