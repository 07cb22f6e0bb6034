package rack

// AddonKind tells how an add-on is charged.
type AddonKind string

const (
	// AddonFlat is charged once per rack.
	AddonFlat AddonKind = "flat"
	// AddonPerBay is charged once per bay.
	AddonPerBay AddonKind = "per_bay"
)

// Known add-on identifiers.
const (
	AddonDelivery = "delivery"
	AddonTotes    = "totes"
	AddonWheels   = "wheels"
)

// AddonRate is the price rule of one add-on.
type AddonRate struct {
	ID     string    `json:"id"`
	Kind   AddonKind `json:"kind"`
	Amount float64   `json:"amount"`
}

// PriceTable holds the base bay price and the add-on rules.
type PriceTable struct {
	PricePerBay float64     `json:"pricePerBay"`
	Addons      []AddonRate `json:"addons"`
}

// DefaultPriceTable returns the production rates.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		PricePerBay: 35,
		Addons: []AddonRate{
			{ID: AddonDelivery, Kind: AddonFlat, Amount: 75},
			{ID: AddonTotes, Kind: AddonPerBay, Amount: 12},
			{ID: AddonWheels, Kind: AddonFlat, Amount: 75},
		},
	}
}

// AddonSelection maps an add-on id to whether it is toggled on.
type AddonSelection map[string]bool

// Enabled returns the ids toggled on, in price table order. Ids the table
// does not know are left out.
func (a AddonSelection) Enabled(rates PriceTable) []string {
	ids := make([]string, 0, len(a))
	for _, r := range rates.Addons {
		if a[r.ID] {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// AddonCharge is the contribution of one enabled add-on.
type AddonCharge struct {
	ID     string    `json:"id"`
	Kind   AddonKind `json:"kind"`
	Amount float64   `json:"amount"`
}

// Breakdown itemizes an estimate.
type Breakdown struct {
	Bays   int           `json:"bays"`
	Base   float64       `json:"base"`
	Addons []AddonCharge `json:"addons"`
	Total  float64       `json:"total"`
}

// Price returns the estimate for bays with the given add-ons.
func Price(bays int, addons AddonSelection, rates PriceTable) float64 {
	return Itemize(bays, addons, rates).Total
}

// Itemize prices bays at the per-bay rate and adds every enabled add-on:
// flat rules once, per-bay rules once per bay. Negative bay counts are
// treated as 0. Amounts keep full precision; rounding is a display concern.
func Itemize(bays int, addons AddonSelection, rates PriceTable) Breakdown {
	bays = max(bays, 0)
	b := Breakdown{
		Bays:   bays,
		Base:   float64(bays) * rates.PricePerBay,
		Addons: []AddonCharge{},
	}
	b.Total = b.Base

	for _, r := range rates.Addons {
		if !addons[r.ID] {
			continue
		}
		amount := r.Amount
		if r.Kind == AddonPerBay {
			amount = float64(bays) * r.Amount
		}
		b.Addons = append(b.Addons, AddonCharge{ID: r.ID, Kind: r.Kind, Amount: amount})
		b.Total += amount
	}
	return b
}
