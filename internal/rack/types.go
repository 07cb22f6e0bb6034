package rack

// Orientation selects which tote width runs along the wall.
type Orientation string

const (
	OrientationStandard Orientation = "standard"
	OrientationSideways Orientation = "sideways"
)

// SizingMode decides whether the selected grid is the solver's maximum or a manual override.
type SizingMode string

const (
	SizeMax    SizingMode = "max"
	SizeManual SizingMode = "manual"
)

// ToteSpec holds the physical dimensions of one tote family, in inches.
type ToteSpec struct {
	WidthStandard float64 `json:"widthStandard"`
	WidthSideways float64 `json:"widthSideways"`
	Height        float64 `json:"height"`
}

// WidthAlong returns the tote width that runs along the wall for the given orientation.
func (t ToteSpec) WidthAlong(o Orientation) float64 {
	if o == OrientationSideways {
		return t.WidthSideways
	}
	return t.WidthStandard
}

// Structure holds the fixed physical allowances of the rack frame, in inches.
type Structure struct {
	PostWidth   float64 `json:"postWidth"`
	ShelfHeight float64 `json:"shelfHeight"`
	GapWidth    float64 `json:"gapWidth"`
	GapHeight   float64 `json:"gapHeight"`
}

// DefaultStructure returns the production frame allowances.
func DefaultStructure() Structure {
	return Structure{
		PostWidth:   1.5,
		ShelfHeight: 1.5,
		GapWidth:    1,
		GapHeight:   2,
	}
}

// Wall is the visitor-entered wall size, in inches.
type Wall struct {
	WidthIn  float64 `json:"widthIn"`
	HeightIn float64 `json:"heightIn"`
}

// Limits bounds the solver: the accepted wall range, the probe ceiling of
// the brute-force search and the hard cap on rows.
type Limits struct {
	MinWidthIn  float64 `json:"minWidthIn"`
	MaxWidthIn  float64 `json:"maxWidthIn"`
	MinHeightIn float64 `json:"minHeightIn"`
	MaxHeightIn float64 `json:"maxHeightIn"`
	ProbeLimit  int     `json:"probeLimit"`
	MaxRows     int     `json:"maxRows"`
}

// DefaultLimits returns the production solver limits.
func DefaultLimits() Limits {
	return Limits{
		MinWidthIn:  24,
		MaxWidthIn:  360,
		MinHeightIn: 24,
		MaxHeightIn: 180,
		ProbeLimit:  20,
		MaxRows:     5,
	}
}

// withDefaults fills every unset field from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MinWidthIn <= 0 {
		l.MinWidthIn = d.MinWidthIn
	}
	if l.MaxWidthIn <= 0 {
		l.MaxWidthIn = d.MaxWidthIn
	}
	if l.MinHeightIn <= 0 {
		l.MinHeightIn = d.MinHeightIn
	}
	if l.MaxHeightIn <= 0 {
		l.MaxHeightIn = d.MaxHeightIn
	}
	if l.ProbeLimit <= 0 {
		l.ProbeLimit = d.ProbeLimit
	}
	if l.MaxRows <= 0 {
		l.MaxRows = d.MaxRows
	}
	return l
}

// FitResult is the largest bay grid a wall can host. Cols or Rows of 0 means
// no valid layout exists.
type FitResult struct {
	Cols  int     `json:"cols"`
	Rows  int     `json:"rows"`
	ToteW float64 `json:"toteW"`
	ToteH float64 `json:"toteH"`
}

// Fits reports whether at least one bay fits.
func (f FitResult) Fits() bool {
	return f.Cols > 0 && f.Rows > 0
}

// Selection is the authoritative grid that gets priced and projected.
type Selection struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Bays returns the number of bays in the selection.
func (s Selection) Bays() int {
	return s.Cols * s.Rows
}

// Dimensions is the outer footprint of a rack, rounded to whole inches.
type Dimensions struct {
	WidthIn  int `json:"widthIn"`
	HeightIn int `json:"heightIn"`
}
