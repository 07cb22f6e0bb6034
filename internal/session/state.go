package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tote-builder-backend/internal/catalog"
	"tote-builder-backend/internal/rack"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrInfeasible    = errors.New("configuration does not fit the wall")
	ErrItemNotFound  = errors.New("quote item not found")
	ErrStepLocked    = errors.New("step is not reachable yet")
	ErrUnknownStep   = errors.New("unknown step")
	ErrUnknownOption = errors.New("unknown option")
)

// Step is a stage of the configurator flow.
type Step string

const (
	StepBuild   Step = "build"
	StepQuote   Step = "quote"
	StepRequest Step = "request"
)

var stepOrder = []Step{StepBuild, StepQuote, StepRequest}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// BuildForm is the configuration currently on the build step.
type BuildForm struct {
	WallWidthIn  float64             `json:"wallWidthIn"`
	WallHeightIn float64             `json:"wallHeightIn"`
	ToteType     catalog.ToteType    `json:"toteType"`
	Orientation  rack.Orientation    `json:"orientation"`
	SizeMode     rack.SizingMode     `json:"sizeMode"`
	ManualCols   int                 `json:"manualCols"`
	ManualRows   int                 `json:"manualRows"`
	Addons       rack.AddonSelection `json:"addons"`
}

// NewBuildForm returns the form a new visitor starts with.
func NewBuildForm(cat *catalog.Catalog) BuildForm {
	return BuildForm{
		WallWidthIn:  118,
		WallHeightIn: 96,
		ToteType:     cat.Totes[0].Type,
		Orientation:  rack.OrientationStandard,
		SizeMode:     rack.SizeMax,
		ManualCols:   1,
		ManualRows:   1,
		Addons:       cat.DefaultAddons(),
	}
}

// Input converts the form into the core calculation input.
func (f BuildForm) Input(cat *catalog.Catalog) rack.Input {
	return rack.Input{
		Wall:        rack.Wall{WidthIn: f.WallWidthIn, HeightIn: f.WallHeightIn},
		Tote:        cat.Tote(f.ToteType).Spec,
		Orientation: f.Orientation,
		Mode:        f.SizeMode,
		ManualCols:  f.ManualCols,
		ManualRows:  f.ManualRows,
		Addons:      f.Addons,
	}
}

// Validate rejects option values the catalog does not offer.
func (f BuildForm) Validate(cat *catalog.Catalog) error {
	if !cat.HasTote(f.ToteType) {
		return fmt.Errorf("%w: tote type %q", ErrUnknownOption, f.ToteType)
	}
	switch f.Orientation {
	case rack.OrientationStandard, rack.OrientationSideways:
	default:
		return fmt.Errorf("%w: orientation %q", ErrUnknownOption, f.Orientation)
	}
	switch f.SizeMode {
	case rack.SizeMax, rack.SizeManual:
	default:
		return fmt.Errorf("%w: size mode %q", ErrUnknownOption, f.SizeMode)
	}
	for id := range f.Addons {
		if !cat.HasAddon(id) {
			return fmt.Errorf("%w: add-on %q", ErrUnknownOption, id)
		}
	}
	return nil
}

// LineItemMeta describes the configuration a line item was priced from.
type LineItemMeta struct {
	WallWidthIn  float64          `json:"wallWidthIn"`
	WallHeightIn float64          `json:"wallHeightIn"`
	ToteType     catalog.ToteType `json:"toteType"`
	Orientation  rack.Orientation `json:"orientation"`
	Cols         int              `json:"cols"`
	Rows         int              `json:"rows"`
	TotalBays    int              `json:"totalBays"`
	Addons       []string         `json:"addons"`
}

// QuoteLineItem is a frozen snapshot of one configuration on the quote list.
type QuoteLineItem struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	EstTotal float64      `json:"estTotal"`
	Meta     LineItemMeta `json:"meta"`
}

// Contact is the visitor's contact block on the request step.
type Contact struct {
	First string `json:"first" binding:"required"`
	Last  string `json:"last" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Zip   string `json:"zip" binding:"required"`
}

// Trimmed returns the contact with surrounding whitespace removed from every field.
func (c Contact) Trimmed() Contact {
	return Contact{
		First: strings.TrimSpace(c.First),
		Last:  strings.TrimSpace(c.Last),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
		Zip:   strings.TrimSpace(c.Zip),
	}
}

// State is everything one visitor has entered during a browser session.
type State struct {
	ID              string          `json:"id"`
	Step            Step            `json:"step"`
	Build           BuildForm       `json:"build"`
	Items           []QuoteLineItem `json:"items"`
	Contact         Contact         `json:"contact"`
	PreferredDate   string          `json:"preferredDate"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastSubmittedAt *time.Time      `json:"lastSubmittedAt,omitempty"`
}

// New returns a fresh session on the build step.
func New(id string, cat *catalog.Catalog, now time.Time) *State {
	return &State{
		ID:        id,
		Step:      StepBuild,
		Build:     NewBuildForm(cat),
		Items:     []QuoteLineItem{},
		CreatedAt: now,
	}
}

// Estimate computes the live configuration of the build form.
func (s *State) Estimate(cat *catalog.Catalog) rack.Configuration {
	return rack.Configure(s.Build.Input(cat), cat.Params())
}

// AddToQuote snapshots the current configuration onto the front of the quote
// list and moves to the quote step. A layout that does not fit is refused.
func (s *State) AddToQuote(cat *catalog.Catalog) (QuoteLineItem, error) {
	cfg := s.Estimate(cat)
	if !cfg.Fits {
		return QuoteLineItem{}, ErrInfeasible
	}

	item := QuoteLineItem{
		ID:       uuid.NewString(),
		Title:    fmt.Sprintf("Tote rack — %d × %d bays", cfg.Selection.Cols, cfg.Selection.Rows),
		EstTotal: cfg.Estimate,
		Meta: LineItemMeta{
			WallWidthIn:  s.Build.WallWidthIn,
			WallHeightIn: s.Build.WallHeightIn,
			ToteType:     s.Build.ToteType,
			Orientation:  s.Build.Orientation,
			Cols:         cfg.Selection.Cols,
			Rows:         cfg.Selection.Rows,
			TotalBays:    cfg.TotalBays,
			Addons:       s.Build.Addons.Enabled(cat.PriceTable()),
		},
	}

	s.Items = append([]QuoteLineItem{item}, s.Items...)
	s.Step = StepQuote
	return item, nil
}

// RemoveItem drops a line item. Emptying the list while on the request step
// falls back to the quote step.
func (s *State) RemoveItem(id string) error {
	for i, it := range s.Items {
		if it.ID == id {
			s.Items = append(s.Items[:i:i], s.Items[i+1:]...)
			if len(s.Items) == 0 && s.Step == StepRequest {
				s.Step = StepQuote
			}
			return nil
		}
	}
	return ErrItemNotFound
}

// QuoteTotal sums the frozen estimates of every line item.
func (s *State) QuoteTotal() float64 {
	var total float64
	for _, it := range s.Items {
		total += it.EstTotal
	}
	return total
}

// GoTo moves to another step. Going back is always allowed; going forward
// is one step at a time, and the request step needs at least one item.
func (s *State) GoTo(step Step) error {
	target := step.index()
	if target < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	if target > s.Step.index()+1 {
		return fmt.Errorf("%w: cannot skip from %s to %s", ErrStepLocked, s.Step, step)
	}
	if step == StepRequest && len(s.Items) == 0 {
		return fmt.Errorf("%w: add at least one configuration first", ErrStepLocked)
	}
	s.Step = step
	return nil
}

// StartNewBuild returns to the build step keeping the quote list.
func (s *State) StartNewBuild() {
	s.Step = StepBuild
}

// SetRequestDetails stores the request step fields.
func (s *State) SetRequestDetails(c Contact, preferredDate, notes string) {
	s.Contact = c.Trimmed()
	s.PreferredDate = strings.TrimSpace(preferredDate)
	s.Notes = notes
}

// MarkSubmitted records a successful submission.
func (s *State) MarkSubmitted(at time.Time) {
	s.LastSubmittedAt = &at
}

// Clone returns a deep copy that shares nothing mutable with s.
func (s *State) Clone() *State {
	c := *s
	c.Build.Addons = make(rack.AddonSelection, len(s.Build.Addons))
	for k, v := range s.Build.Addons {
		c.Build.Addons[k] = v
	}
	c.Items = make([]QuoteLineItem, len(s.Items))
	for i, it := range s.Items {
		addons := make([]string, len(it.Meta.Addons))
		copy(addons, it.Meta.Addons)
		it.Meta.Addons = addons
		c.Items[i] = it
	}
	if s.LastSubmittedAt != nil {
		t := *s.LastSubmittedAt
		c.LastSubmittedAt = &t
	}
	return &c
}
