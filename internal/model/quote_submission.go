package model

import "time"

// Delivery outcomes of a quote request.
const (
	SubmissionSent   = "sent"
	SubmissionLogged = "logged"
	SubmissionFailed = "failed"
)

// QuoteSubmission is the operator-side record of one quote request the
// service forwarded (or tried to forward) to the webhook.
type QuoteSubmission struct {
	ID            string                `gorm:"primaryKey;size:36" json:"id"`
	Source        string                `gorm:"not null" json:"source"`
	FirstName     string                `gorm:"not null" json:"firstName"`
	LastName      string                `gorm:"not null" json:"lastName"`
	Email         string                `gorm:"not null;index" json:"email"`
	Phone         string                `gorm:"not null" json:"phone"`
	Zip           string                `gorm:"not null" json:"zip"`
	PreferredDate *string               `json:"preferredDate"`
	Notes         string                `json:"notes"`
	Estimate      float64               `gorm:"not null" json:"estimate"`
	Status        string                `gorm:"not null;index" json:"status"`
	Error         string                `json:"error,omitempty"`
	CreatedAt     time.Time             `gorm:"not null;index" json:"createdAt"`
	Items         []QuoteSubmissionItem `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"items"`
}

// QuoteSubmissionItem is one frozen line item of a submission.
type QuoteSubmissionItem struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	SubmissionID string  `gorm:"size:36;not null;index" json:"-"`
	LineItemID   string  `gorm:"size:36;not null" json:"lineItemId"`
	Position     int     `gorm:"not null" json:"position"`
	Title        string  `gorm:"not null" json:"title"`
	EstTotal     float64 `gorm:"not null" json:"estTotal"`
	WallWidthIn  float64 `json:"wallWidthIn"`
	WallHeightIn float64 `json:"wallHeightIn"`
	ToteType     string  `json:"toteType"`
	Orientation  string  `json:"orientation"`
	Cols         int     `json:"cols"`
	Rows         int     `json:"rows"`
	TotalBays    int     `json:"totalBays"`
	Addons       string  `json:"addons"` // comma separated add-on ids
}
