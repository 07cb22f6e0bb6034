package rack

import "math"

// Project rebuilds the outer rack footprint of a cols x rows grid for display.
// An empty grid has no footprint.
func Project(cols, rows int, tote ToteSpec, o Orientation, st Structure) Dimensions {
	if cols <= 0 || rows <= 0 {
		return Dimensions{}
	}
	return Dimensions{
		WidthIn:  int(math.Round(neededWidth(cols, tote.WidthAlong(o), st))),
		HeightIn: int(math.Round(neededHeight(rows, tote.Height, st))),
	}
}
