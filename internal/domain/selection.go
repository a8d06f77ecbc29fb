package domain

// Selection is the ordered set of cell ids currently picked for purchase.
// Its membership always equals exactly the set of seats whose status is
// selected; every operation that moves a seat away from that status goes
// through this file or through ReconcileSelection.
type Selection []string

func (s Selection) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}

	return false
}

func (s Selection) without(id string) Selection {
	out := make(Selection, 0, len(s))
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}

	return out
}

// ToggleSeat flips one seat between available and selected. Non-seat cells
// and sold seats are inert: the inputs are returned unchanged.
func ToggleSeat(l *HallLayout, sel Selection, row, col int) (*HallLayout, Selection, error) {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return nil, nil, ErrCellOutOfRange
	}

	if l.Grid[row][col].Type != CellSeat {
		return l, sel, nil
	}

	out := l.Normalized()
	cell := &out.Grid[row][col]

	switch cell.Status {
	case StatusAvailable:
		cell.Status = StatusSelected
		sel = append(append(Selection{}, sel...), cell.ID)
	case StatusSelected:
		cell.Status = StatusAvailable
		sel = sel.without(cell.ID)
	case StatusSold:
		return l, sel, nil
	}

	return out, sel, nil
}

// ConfirmPurchase marks every selected seat sold and clears the selection.
// Confirming an empty selection is a valid no-op.
func ConfirmPurchase(l *HallLayout, sel Selection) (*HallLayout, Selection) {
	out := l.Normalized()

	for r := range out.Grid {
		for c := range out.Grid[r] {
			cell := &out.Grid[r][c]
			if cell.Type == CellSeat && cell.Status == StatusSelected {
				cell.Status = StatusSold
			}
		}
	}

	return out, Selection{}
}

// ClearSelection reverts every selected seat to available and clears the
// selection.
func ClearSelection(l *HallLayout, sel Selection) (*HallLayout, Selection) {
	out := l.Normalized()

	for r := range out.Grid {
		for c := range out.Grid[r] {
			cell := &out.Grid[r][c]
			if cell.Type == CellSeat && cell.Status == StatusSelected {
				cell.Status = StatusAvailable
			}
		}
	}

	return out, Selection{}
}

// ReconcileSelection drops every selection member that no longer refers to a
// seat with status selected. Editing tools can retype or reset a cell behind
// the selection's back; callers run this after any such change.
func ReconcileSelection(l *HallLayout, sel Selection) Selection {
	out := make(Selection, 0, len(sel))

	for _, id := range sel {
		row, col, ok := ParseCellID(id)
		if !ok || row >= l.Rows || col >= l.Cols {
			continue
		}

		cell := l.Grid[row][col]
		if cell.Type == CellSeat && cell.Status == StatusSelected {
			out = append(out, id)
		}
	}

	return out
}
