package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type CellType string

const (
	CellEmpty  CellType = "empty"
	CellSeat   CellType = "seat"
	CellAisle  CellType = "aisle"
	CellScreen CellType = "screen"
)

type SeatCategory string

const (
	CategoryStandard   SeatCategory = "standard"
	CategoryPremium    SeatCategory = "premium"
	CategoryAccessible SeatCategory = "accessible"
	CategoryLoveseat   SeatCategory = "loveseat"
)

type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusSelected  SeatStatus = "selected"
	StatusSold      SeatStatus = "sold"
)

type Tool string

const (
	ToolSelect Tool = "select"
	ToolSeat   Tool = "seat"
	ToolAisle  Tool = "aisle"
	ToolScreen Tool = "screen"
	ToolEraser Tool = "eraser"
)

// Cell is one grid position of a hall layout. Category and Status are only
// meaningful for seat cells. IsOccluded and HasGoodView are transient view
// annotations and never survive Template().
type Cell struct {
	ID          string       `json:"id"`
	Type        CellType     `json:"type"`
	Category    SeatCategory `json:"category,omitempty"`
	Status      SeatStatus   `json:"status,omitempty"`
	IsOccluded  bool         `json:"isOccluded,omitempty"`
	HasGoodView bool         `json:"hasGoodView,omitempty"`
}

// HallLayout is a named rectangular grid of cells together with an index of
// the cells currently typed as screen. Grid and ScreenCellIDs form a single
// aggregate: both sides are only ever updated together through ApplyTool.
type HallLayout struct {
	Name          string   `json:"name"`
	Rows          int      `json:"rows"`
	Cols          int      `json:"cols"`
	Grid          [][]Cell `json:"grid"`
	ScreenCellIDs []string `json:"screenCellIds"`
}

// CellID derives the canonical cell identifier from a grid position.
func CellID(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

// ParseCellID recovers the grid position encoded in a cell identifier.
// Malformed identifiers report ok=false and are skipped by callers.
func ParseCellID(id string) (row, col int, ok bool) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	row, err := strconv.Atoi(parts[0])
	if err != nil || row < 0 {
		return 0, 0, false
	}

	col, err = strconv.Atoi(parts[1])
	if err != nil || col < 0 {
		return 0, 0, false
	}

	return row, col, true
}

// NewHallLayout builds an all-empty grid of the given dimensions.
func NewHallLayout(rows, cols int, name string) (*HallLayout, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimension
	}

	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		for c := range grid[r] {
			grid[r][c] = Cell{ID: CellID(r, c), Type: CellEmpty}
		}
	}

	return &HallLayout{
		Name:          name,
		Rows:          rows,
		Cols:          cols,
		Grid:          grid,
		ScreenCellIDs: []string{},
	}, nil
}

// Clone returns a deep copy. Mutating operations work on clones so callers
// can keep handing out the original safely.
func (l *HallLayout) Clone() *HallLayout {
	out := &HallLayout{
		Name:          l.Name,
		Rows:          l.Rows,
		Cols:          l.Cols,
		Grid:          make([][]Cell, len(l.Grid)),
		ScreenCellIDs: append([]string{}, l.ScreenCellIDs...),
	}

	for r := range l.Grid {
		out.Grid[r] = append([]Cell{}, l.Grid[r]...)
	}

	return out
}

// HasScreenCell reports whether the screen index contains the given id.
func (l *HallLayout) HasScreenCell(id string) bool {
	for _, v := range l.ScreenCellIDs {
		if v == id {
			return true
		}
	}

	return false
}

func (l *HallLayout) addScreenCell(id string) {
	if !l.HasScreenCell(id) {
		l.ScreenCellIDs = append(l.ScreenCellIDs, id)
	}
}

func (l *HallLayout) removeScreenCell(id string) {
	for i, v := range l.ScreenCellIDs {
		if v == id {
			l.ScreenCellIDs = append(l.ScreenCellIDs[:i], l.ScreenCellIDs[i+1:]...)
			return
		}
	}
}

// ApplyTool applies one editing tool to one cell and returns the resulting
// layout, leaving the receiver untouched. A type change away from seat drops
// the cell's category and status; a change away from screen evicts the cell
// from the screen index. The select tool only retypes a seat's category and
// preserves its status.
func (l *HallLayout) ApplyTool(row, col int, tool Tool, category SeatCategory) (*HallLayout, error) {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return nil, ErrCellOutOfRange
	}

	out := l.Clone()
	cell := &out.Grid[row][col]
	wasScreen := cell.Type == CellScreen

	switch tool {
	case ToolSeat:
		cell.Type = CellSeat
		cell.Category = category
		cell.Status = StatusAvailable
		if wasScreen {
			out.removeScreenCell(cell.ID)
		}
	case ToolAisle:
		cell.Type = CellAisle
		cell.Category = ""
		cell.Status = ""
		if wasScreen {
			out.removeScreenCell(cell.ID)
		}
	case ToolScreen:
		cell.Type = CellScreen
		cell.Category = ""
		cell.Status = ""
		out.addScreenCell(cell.ID)
	case ToolEraser:
		cell.Type = CellEmpty
		cell.Category = ""
		cell.Status = ""
		if wasScreen {
			out.removeScreenCell(cell.ID)
		}
	case ToolSelect:
		if cell.Type == CellSeat && cell.Category != category {
			cell.Category = category
		}
	default:
		return nil, fmt.Errorf("unknown editing tool: %q", tool)
	}

	cell.IsOccluded = false
	cell.HasGoodView = false

	return out, nil
}

// Normalized returns a copy where every seat with a missing status is
// defaulted to available. Absent status means available everywhere; this is
// the single place that rule is applied, and it runs at every ingestion
// boundary (storage load, import, preview).
func (l *HallLayout) Normalized() *HallLayout {
	out := l.Clone()

	for r := range out.Grid {
		for c := range out.Grid[r] {
			cell := &out.Grid[r][c]
			if cell.Type == CellSeat && cell.Status == "" {
				cell.Status = StatusAvailable
			}
		}
	}

	return out
}

// Template returns the persistable form of the layout: every seat forced
// back to available and all transient view annotations dropped. Idempotent.
func (l *HallLayout) Template() *HallLayout {
	out := l.Clone()

	for r := range out.Grid {
		for c := range out.Grid[r] {
			cell := &out.Grid[r][c]
			cell.IsOccluded = false
			cell.HasGoodView = false

			if cell.Type == CellSeat {
				cell.Status = StatusAvailable
			} else {
				cell.Category = ""
				cell.Status = ""
			}
		}
	}

	return out
}

// Validate checks the structural invariants of a layout: positive
// dimensions, exact row lengths, canonical cell ids, and two-way consistency
// between the grid and the screen index. External layouts are untrusted, so
// this runs at every load and import boundary.
func (l *HallLayout) Validate() error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("%w: rows and cols must be positive", ErrInvalidLayoutStructure)
	}

	if len(l.Grid) != l.Rows {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidLayoutStructure, l.Rows, len(l.Grid))
	}

	screenCells := make(map[string]bool)

	for r, gridRow := range l.Grid {
		if len(gridRow) != l.Cols {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidLayoutStructure, r, len(gridRow), l.Cols)
		}

		for c, cell := range gridRow {
			if cell.ID != CellID(r, c) {
				return fmt.Errorf("%w: cell at (%d,%d) has id %q", ErrInvalidLayoutStructure, r, c, cell.ID)
			}

			if cell.Type == CellScreen {
				screenCells[cell.ID] = true
			}
		}
	}

	if len(l.ScreenCellIDs) != len(screenCells) {
		return fmt.Errorf("%w: screen index does not match screen cells", ErrInvalidLayoutStructure)
	}

	for _, id := range l.ScreenCellIDs {
		if !screenCells[id] {
			return fmt.Errorf("%w: screen index references non-screen cell %q", ErrInvalidLayoutStructure, id)
		}
	}

	return nil
}

type LayoutRepository interface {
	ListNames(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (*HallLayout, error)
	Create(ctx context.Context, layout *HallLayout) error
	Update(ctx context.Context, layout *HallLayout) error
	Delete(ctx context.Context, name string) error
}
