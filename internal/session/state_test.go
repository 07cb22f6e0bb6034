package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tote-builder-backend/internal/catalog"
	"tote-builder-backend/internal/rack"
)

func newTestState() (*State, *catalog.Catalog) {
	cat := catalog.Default()
	return New("s1", cat, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)), cat
}

func TestNew(t *testing.T) {
	s, _ := newTestState()

	assert.Equal(t, StepBuild, s.Step)
	assert.Equal(t, 118.0, s.Build.WallWidthIn)
	assert.Equal(t, 96.0, s.Build.WallHeightIn)
	assert.Equal(t, catalog.ToteHDX27, s.Build.ToteType)
	assert.Equal(t, rack.OrientationStandard, s.Build.Orientation)
	assert.Equal(t, rack.SizeMax, s.Build.SizeMode)
	assert.Equal(t, rack.AddonSelection{"delivery": true, "totes": false, "wheels": false}, s.Build.Addons)
	assert.Empty(t, s.Items)
}

func TestState_Estimate(t *testing.T) {
	s, cat := newTestState()

	cfg := s.Estimate(cat)
	assert.True(t, cfg.Fits)
	assert.Equal(t, 25, cfg.TotalBays)
	assert.InDelta(t, 950, cfg.Estimate, 1e-9)
}

func TestState_AddToQuote(t *testing.T) {
	s, cat := newTestState()

	first, err := s.AddToQuote(cat)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Tote rack — 5 × 5 bays", first.Title)
	assert.InDelta(t, 950, first.EstTotal, 1e-9)
	assert.Equal(t, LineItemMeta{
		WallWidthIn:  118,
		WallHeightIn: 96,
		ToteType:     catalog.ToteHDX27,
		Orientation:  rack.OrientationStandard,
		Cols:         5,
		Rows:         5,
		TotalBays:    25,
		Addons:       []string{"delivery"},
	}, first.Meta)
	assert.Equal(t, StepQuote, s.Step)

	s.Step = StepBuild
	s.Build.SizeMode = rack.SizeManual
	s.Build.ManualCols = 2
	s.Build.ManualRows = 2
	s.Build.Addons["totes"] = true

	second, err := s.AddToQuote(cat)
	require.NoError(t, err)

	// Newest first.
	require.Len(t, s.Items, 2)
	assert.Equal(t, second.ID, s.Items[0].ID)
	assert.Equal(t, first.ID, s.Items[1].ID)
	assert.InDelta(t, 4*35+75+4*12, second.EstTotal, 1e-9)
	assert.InDelta(t, 950+4*35+75+4*12, s.QuoteTotal(), 1e-9)
}

func TestState_AddToQuoteIsFrozen(t *testing.T) {
	s, cat := newTestState()

	item, err := s.AddToQuote(cat)
	require.NoError(t, err)

	s.Build.WallWidthIn = 60
	s.Build.Addons["wheels"] = true
	cat.PricePerBay = 1000

	assert.InDelta(t, 950, s.Items[0].EstTotal, 1e-9)
	assert.Equal(t, item, s.Items[0])
}

func TestState_AddToQuoteRejectsInfeasible(t *testing.T) {
	s, cat := newTestState()
	s.Build.WallWidthIn = 24
	s.Build.Orientation = rack.OrientationSideways
	s.Build.SizeMode = rack.SizeManual

	_, err := s.AddToQuote(cat)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.Empty(t, s.Items)
	assert.Equal(t, StepBuild, s.Step)
}

func TestState_RemoveItem(t *testing.T) {
	s, cat := newTestState()
	item, err := s.AddToQuote(cat)
	require.NoError(t, err)
	require.NoError(t, s.GoTo(StepRequest))

	assert.ErrorIs(t, s.RemoveItem("missing"), ErrItemNotFound)

	require.NoError(t, s.RemoveItem(item.ID))
	assert.Empty(t, s.Items)
	assert.Equal(t, StepQuote, s.Step, "an empty list cannot stay on the request step")
	assert.Zero(t, s.QuoteTotal())
}

func TestState_GoTo(t *testing.T) {
	testCases := []struct {
		name      string
		from      Step
		items     int
		to        Step
		expectErr error
	}{
		{name: "Build to quote", from: StepBuild, to: StepQuote},
		{name: "Build cannot skip to request", from: StepBuild, items: 1, to: StepRequest, expectErr: ErrStepLocked},
		{name: "Quote to request needs an item", from: StepQuote, to: StepRequest, expectErr: ErrStepLocked},
		{name: "Quote to request with an item", from: StepQuote, items: 1, to: StepRequest},
		{name: "Request back to build", from: StepRequest, items: 1, to: StepBuild},
		{name: "Quote back to build", from: StepQuote, to: StepBuild},
		{name: "Stay on build", from: StepBuild, to: StepBuild},
		{name: "Unknown step", from: StepBuild, to: Step("checkout"), expectErr: ErrUnknownStep},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestState()
			s.Step = tc.from
			for i := 0; i < tc.items; i++ {
				s.Items = append(s.Items, QuoteLineItem{ID: "x"})
			}

			err := s.GoTo(tc.to)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Equal(t, tc.from, s.Step)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.to, s.Step)
			}
		})
	}
}

func TestBuildForm_Validate(t *testing.T) {
	cat := catalog.Default()

	valid := NewBuildForm(cat)
	assert.NoError(t, valid.Validate(cat))

	badTote := valid
	badTote.ToteType = "mystery"
	assert.ErrorIs(t, badTote.Validate(cat), ErrUnknownOption)

	badOrientation := valid
	badOrientation.Orientation = "diagonal"
	assert.ErrorIs(t, badOrientation.Validate(cat), ErrUnknownOption)

	badMode := valid
	badMode.SizeMode = "auto"
	assert.ErrorIs(t, badMode.Validate(cat), ErrUnknownOption)

	badAddon := NewBuildForm(cat)
	badAddon.Addons["paint"] = true
	assert.ErrorIs(t, badAddon.Validate(cat), ErrUnknownOption)
}

func TestState_SetRequestDetails(t *testing.T) {
	s, _ := newTestState()
	s.SetRequestDetails(Contact{First: " Ada ", Last: "Lovelace", Email: "ada@example.com ", Phone: "555", Zip: " 02139"}, " 2026-11-01 ", "side door")

	assert.Equal(t, Contact{First: "Ada", Last: "Lovelace", Email: "ada@example.com", Phone: "555", Zip: "02139"}, s.Contact)
	assert.Equal(t, "2026-11-01", s.PreferredDate)
	assert.Equal(t, "side door", s.Notes)
}

func TestState_Clone(t *testing.T) {
	s, cat := newTestState()
	_, err := s.AddToQuote(cat)
	require.NoError(t, err)
	s.MarkSubmitted(time.Now())

	c := s.Clone()
	c.Build.Addons["wheels"] = true
	c.Items[0].Meta.Addons[0] = "changed"
	*c.LastSubmittedAt = time.Time{}

	assert.False(t, s.Build.Addons["wheels"])
	assert.Equal(t, "delivery", s.Items[0].Meta.Addons[0])
	assert.False(t, s.LastSubmittedAt.IsZero())
}
