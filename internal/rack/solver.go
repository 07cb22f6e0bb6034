package rack

import "math"

// Solve finds the largest column and row counts that fit on the wall.
//
// The wall is clamped into the limits first; out-of-range input is never
// rejected. Both searches are a linear scan from 1 to lim.ProbeLimit keeping
// the largest count whose footprint fits, so walls wider than ProbeLimit
// columns report ProbeLimit. Rows are then capped at lim.MaxRows.
// A zero count is a valid "does not fit" result, not an error.
func Solve(wall Wall, tote ToteSpec, o Orientation, st Structure, lim Limits) FitResult {
	lim = lim.withDefaults()

	toteW := tote.WidthAlong(o)
	toteH := tote.Height

	usableW := clamp(wall.WidthIn, lim.MinWidthIn, lim.MaxWidthIn)
	usableH := clamp(wall.HeightIn, lim.MinHeightIn, lim.MaxHeightIn)

	bestCols := 0
	for cols := 1; cols <= lim.ProbeLimit; cols++ {
		if neededWidth(cols, toteW, st) <= usableW {
			bestCols = cols
		}
	}

	bestRows := 0
	for rows := 1; rows <= lim.ProbeLimit; rows++ {
		if neededHeight(rows, toteH, st) <= usableH {
			bestRows = rows
		}
	}

	return FitResult{
		Cols:  bestCols,
		Rows:  min(bestRows, lim.MaxRows),
		ToteW: toteW,
		ToteH: toteH,
	}
}

// neededWidth is the frame width of cols totes: one post on each side of
// every column and a gap between neighbours.
func neededWidth(cols int, toteW float64, st Structure) float64 {
	c := float64(cols)
	return c*toteW + (c-1)*st.GapWidth + (c+1)*st.PostWidth
}

// neededHeight is the frame height of rows totes: a shelf under every row
// and a clearance gap above and below each one.
func neededHeight(rows int, toteH float64, st Structure) float64 {
	r := float64(rows)
	return r*toteH + r*st.ShelfHeight + (r+1)*st.GapHeight
}

// clamp bounds v into [lo, hi]. NaN is treated as 0, matching a blank or
// non-numeric form field.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	return math.Min(hi, math.Max(lo, v))
}

func clampInt(v, lo, hi int) int {
	return min(hi, max(lo, v))
}
