// Package catalog holds the operator-edited product data: tote families,
// priced add-ons, frame allowances and solver limits.
package catalog

import (
	"fmt"

	"tote-builder-backend/config"
	"tote-builder-backend/internal/rack"
)

// ToteType identifies a tote family.
type ToteType string

const (
	ToteHDX27  ToteType = "hdx27"
	ToteCustom ToteType = "custom"
)

// Tote is one entry of the tote catalog.
type Tote struct {
	Type  ToteType      `json:"type"`
	Label string        `json:"label"`
	Spec  rack.ToteSpec `json:"spec"`
}

// Addon is one priced extra offered on the build form.
type Addon struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Kind    rack.AddonKind `json:"kind"`
	Price   float64        `json:"price"`
	Default bool           `json:"default"`
}

// Catalog is the full set of constants a configuration is computed against.
type Catalog struct {
	PricePerBay float64        `json:"pricePerBay"`
	Addons      []Addon        `json:"addons"`
	Totes       []Tote         `json:"totes"`
	Structure   rack.Structure `json:"structure"`
	Limits      rack.Limits    `json:"limits"`
}

var defaultSpec = rack.ToteSpec{WidthStandard: 19.6, WidthSideways: 28.5, Height: 15.2}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		PricePerBay: 35,
		Addons: []Addon{
			{ID: rack.AddonDelivery, Name: "Include Delivery", Kind: rack.AddonFlat, Price: 75, Default: true},
			{ID: rack.AddonTotes, Name: "Include Totes", Kind: rack.AddonPerBay, Price: 12},
			{ID: rack.AddonWheels, Name: "Include Wheels", Kind: rack.AddonFlat, Price: 75},
		},
		Totes: []Tote{
			{Type: ToteHDX27, Label: "HDX 27-gal", Spec: defaultSpec},
			{Type: ToteCustom, Label: "Custom tote", Spec: defaultSpec},
		},
		Structure: rack.DefaultStructure(),
		Limits:    rack.DefaultLimits(),
	}
}

// FromConfig builds a catalog from the config file, keeping the built-in
// value for every field left unset.
func FromConfig(cfg config.CatalogConfig) (*Catalog, error) {
	c := Default()

	if cfg.PricePerBay > 0 {
		c.PricePerBay = cfg.PricePerBay
	}

	if len(cfg.Addons) > 0 {
		addons := make([]Addon, 0, len(cfg.Addons))
		seen := make(map[string]bool, len(cfg.Addons))
		for _, a := range cfg.Addons {
			if a.ID == "" {
				return nil, fmt.Errorf("catalog addon %q has no id", a.Name)
			}
			if seen[a.ID] {
				return nil, fmt.Errorf("catalog addon %q is listed twice", a.ID)
			}
			seen[a.ID] = true

			kind := rack.AddonKind(a.Kind)
			switch kind {
			case rack.AddonFlat, rack.AddonPerBay:
			case "":
				kind = rack.AddonFlat
			default:
				return nil, fmt.Errorf("catalog addon %q has unknown kind %q", a.ID, a.Kind)
			}
			name := a.Name
			if name == "" {
				name = a.ID
			}
			addons = append(addons, Addon{ID: a.ID, Name: name, Kind: kind, Price: a.Price, Default: a.Default})
		}
		c.Addons = addons
	}

	if len(cfg.Totes) > 0 {
		totes := make([]Tote, 0, len(cfg.Totes))
		for _, t := range cfg.Totes {
			if t.Type == "" {
				return nil, fmt.Errorf("catalog tote %q has no type", t.Label)
			}
			if t.WidthStandard <= 0 || t.WidthSideways <= 0 || t.Height <= 0 {
				return nil, fmt.Errorf("catalog tote %q needs positive dimensions", t.Type)
			}
			label := t.Label
			if label == "" {
				label = t.Type
			}
			totes = append(totes, Tote{
				Type:  ToteType(t.Type),
				Label: label,
				Spec: rack.ToteSpec{
					WidthStandard: t.WidthStandard,
					WidthSideways: t.WidthSideways,
					Height:        t.Height,
				},
			})
		}
		c.Totes = totes
	}

	s := cfg.Structure
	if s.PostWidth > 0 {
		c.Structure.PostWidth = s.PostWidth
	}
	if s.ShelfHeight > 0 {
		c.Structure.ShelfHeight = s.ShelfHeight
	}
	if s.GapWidth > 0 {
		c.Structure.GapWidth = s.GapWidth
	}
	if s.GapHeight > 0 {
		c.Structure.GapHeight = s.GapHeight
	}

	l := cfg.Limits
	if l.MinWidthIn > 0 {
		c.Limits.MinWidthIn = l.MinWidthIn
	}
	if l.MaxWidthIn > 0 {
		c.Limits.MaxWidthIn = l.MaxWidthIn
	}
	if l.MinHeightIn > 0 {
		c.Limits.MinHeightIn = l.MinHeightIn
	}
	if l.MaxHeightIn > 0 {
		c.Limits.MaxHeightIn = l.MaxHeightIn
	}
	if l.ProbeLimit > 0 {
		c.Limits.ProbeLimit = l.ProbeLimit
	}
	if l.MaxRows > 0 {
		c.Limits.MaxRows = l.MaxRows
	}
	if c.Limits.MinWidthIn > c.Limits.MaxWidthIn || c.Limits.MinHeightIn > c.Limits.MaxHeightIn {
		return nil, fmt.Errorf("catalog limits have min above max")
	}

	return c, nil
}

// Tote resolves a tote type. Anything that is not a known type falls back to
// the first catalog entry, the standard catalog tote.
func (c *Catalog) Tote(t ToteType) Tote {
	for _, tote := range c.Totes {
		if tote.Type == t {
			return tote
		}
	}
	return c.Totes[0]
}

// HasTote reports whether t is a catalog tote type.
func (c *Catalog) HasTote(t ToteType) bool {
	for _, tote := range c.Totes {
		if tote.Type == t {
			return true
		}
	}
	return false
}

// PriceTable projects the catalog into the pricing engine's rate table.
func (c *Catalog) PriceTable() rack.PriceTable {
	rates := make([]rack.AddonRate, len(c.Addons))
	for i, a := range c.Addons {
		rates[i] = rack.AddonRate{ID: a.ID, Kind: a.Kind, Amount: a.Price}
	}
	return rack.PriceTable{PricePerBay: c.PricePerBay, Addons: rates}
}

// Params returns the constants the core calculations take.
func (c *Catalog) Params() rack.Params {
	return rack.Params{
		Structure: c.Structure,
		Limits:    c.Limits,
		Prices:    c.PriceTable(),
	}
}

// DefaultAddons returns the initial toggle state of every add-on.
func (c *Catalog) DefaultAddons() rack.AddonSelection {
	sel := make(rack.AddonSelection, len(c.Addons))
	for _, a := range c.Addons {
		sel[a.ID] = a.Default
	}
	return sel
}

// AddonName returns the display name of an add-on, or the id itself.
func (c *Catalog) AddonName(id string) string {
	for _, a := range c.Addons {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}

// HasAddon reports whether id is a catalog add-on.
func (c *Catalog) HasAddon(id string) bool {
	for _, a := range c.Addons {
		if a.ID == id {
			return true
		}
	}
	return false
}
