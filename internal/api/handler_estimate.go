package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"tote-builder-backend/internal/catalog"
	"tote-builder-backend/internal/parse"
	"tote-builder-backend/internal/quote"
	"tote-builder-backend/internal/rack"
	"tote-builder-backend/internal/session"
)

// Length is a wall measurement sent either as a JSON number of inches or as
// the text a visitor typed ("118", "9' 10\""). Text that cannot be read is
// taken as 0 and clamped to the minimum by the solver, like an empty field.
type Length float64

func (l *Length) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := parse.Inches(s)
		if err != nil {
			v = 0
		}
		*l = Length(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = Length(v)
	return nil
}

// buildPatch is a partial build form. Absent fields keep their current value.
type buildPatch struct {
	WallWidthIn  *Length           `json:"wallWidthIn"`
	WallHeightIn *Length           `json:"wallHeightIn"`
	ToteType     *catalog.ToteType `json:"toteType"`
	Orientation  *rack.Orientation `json:"orientation"`
	SizeMode     *rack.SizingMode  `json:"sizeMode"`
	ManualCols   *int              `json:"manualCols"`
	ManualRows   *int              `json:"manualRows"`
	Addons       map[string]bool   `json:"addons"`
}

func (p buildPatch) apply(f *session.BuildForm) {
	if p.WallWidthIn != nil {
		f.WallWidthIn = float64(*p.WallWidthIn)
	}
	if p.WallHeightIn != nil {
		f.WallHeightIn = float64(*p.WallHeightIn)
	}
	if p.ToteType != nil {
		f.ToteType = *p.ToteType
	}
	if p.Orientation != nil {
		f.Orientation = *p.Orientation
	}
	if p.SizeMode != nil {
		f.SizeMode = *p.SizeMode
	}
	if p.ManualCols != nil {
		f.ManualCols = *p.ManualCols
	}
	if p.ManualRows != nil {
		f.ManualRows = *p.ManualRows
	}
	for id, on := range p.Addons {
		f.Addons[id] = on
	}
}

type estimateResponse struct {
	Build         session.BuildForm  `json:"build"`
	Configuration rack.Configuration `json:"configuration"`
	EstimateText  string             `json:"estimateText"`
}

// PostEstimate computes a configuration without touching any session. The
// body is applied on top of the default build form.
func (h *Handler) PostEstimate(c *gin.Context) {
	var patch buildPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	form := session.NewBuildForm(h.catalog)
	patch.apply(&form)
	if err := form.Validate(h.catalog); err != nil {
		respondError(c, err)
		return
	}

	cfg := rack.Configure(form.Input(h.catalog), h.catalog.Params())
	c.JSON(http.StatusOK, estimateResponse{
		Build:         form,
		Configuration: cfg,
		EstimateText:  quote.Money(cfg.Estimate),
	})
}
