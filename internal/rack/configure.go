package rack

// Input is one configuration as entered by the visitor.
type Input struct {
	Wall        Wall
	Tote        ToteSpec
	Orientation Orientation
	Mode        SizingMode
	ManualCols  int
	ManualRows  int
	Addons      AddonSelection
}

// Params are the operator-controlled constants a configuration is computed against.
type Params struct {
	Structure Structure
	Limits    Limits
	Prices    PriceTable
}

// DefaultParams returns the production structure, limits and prices.
func DefaultParams() Params {
	return Params{
		Structure: DefaultStructure(),
		Limits:    DefaultLimits(),
		Prices:    DefaultPriceTable(),
	}
}

// Configuration is everything the presentation layer renders for one input.
type Configuration struct {
	Fit        FitResult  `json:"fit"`
	Selection  Selection  `json:"selection"`
	TotalBays  int        `json:"totalBays"`
	Dimensions Dimensions `json:"dimensions"`
	Breakdown  Breakdown  `json:"breakdown"`
	Estimate   float64    `json:"estimate"`
	Fits       bool       `json:"fits"`
}

// Configure runs the solver, resolver, pricing and projection in order.
//
// When Fits is false the estimate is still reported for the clamped manual
// selection, but the configuration must not be quoted.
func Configure(in Input, p Params) Configuration {
	fit := Solve(in.Wall, in.Tote, in.Orientation, p.Structure, p.Limits)
	sel := Resolve(in.Mode, in.ManualCols, in.ManualRows, fit)
	breakdown := Itemize(sel.Bays(), in.Addons, p.Prices)

	return Configuration{
		Fit:        fit,
		Selection:  sel,
		TotalBays:  sel.Bays(),
		Dimensions: Project(sel.Cols, sel.Rows, in.Tote, in.Orientation, p.Structure),
		Breakdown:  breakdown,
		Estimate:   breakdown.Total,
		Fits:       fit.Fits(),
	}
}
