package rack

// Resolve picks the grid that gets priced.
//
// In max mode it is the fit itself. In manual mode each count is clamped into
// [1, max(fit, 1)]. The lower bound of 1 holds even when the fit is 0 so the
// manual input never collapses to an empty grid; it does not mean a bay fits.
// Callers must still check fit.Fits() before treating the result as buildable.
// Unknown modes behave like max.
func Resolve(mode SizingMode, manualCols, manualRows int, fit FitResult) Selection {
	if mode != SizeManual {
		return Selection{Cols: fit.Cols, Rows: fit.Rows}
	}
	return Selection{
		Cols: clampInt(manualCols, 1, max(fit.Cols, 1)),
		Rows: clampInt(manualRows, 1, max(fit.Rows, 1)),
	}
}
