package domain

// EstimateView derives per-seat visibility annotations for display. It works
// on a copy: the canonical layout is never mutated and the annotations are
// never persisted.
//
// The screen is treated as a single horizontal reference line at the
// frontmost screen row, regardless of which columns the screen cells occupy.
// Each column is scanned top to bottom on its own: the first seat behind the
// screen line gets HasGoodView, every later seat in the column gets
// IsOccluded. Seats at or in front of the screen line are never flagged, but
// they do count as "seen" for the rest of the column scan, so a seat behind
// the line that follows one in front of it is reported occluded. That coarse
// column heuristic is the product's observed behavior and is kept as is.
func EstimateView(l *HallLayout) *HallLayout {
	out := l.Normalized()

	for r := range out.Grid {
		for c := range out.Grid[r] {
			out.Grid[r][c].IsOccluded = false
			out.Grid[r][c].HasGoodView = false
		}
	}

	minScreenRow, ok := frontScreenRow(l)
	if !ok {
		// No screen reference: visibility is undefined, statuses are still
		// normalized above.
		return out
	}

	for col := 0; col < out.Cols; col++ {
		seatSeen := false

		for row := 0; row < out.Rows; row++ {
			cell := &out.Grid[row][col]
			if cell.Type != CellSeat {
				continue
			}

			if row > minScreenRow {
				if seatSeen {
					cell.IsOccluded = true
				} else {
					cell.HasGoodView = true
				}
			}

			seatSeen = true
		}
	}

	return out
}

// frontScreenRow returns the minimum row index across all screen cells.
// Malformed screen ids contribute no candidate row.
func frontScreenRow(l *HallLayout) (int, bool) {
	found := false
	minRow := 0

	for _, id := range l.ScreenCellIDs {
		row, _, ok := ParseCellID(id)
		if !ok {
			continue
		}

		if !found || row < minRow {
			minRow = row
			found = true
		}
	}

	return minRow, found
}
