package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHallLayout(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		wantErr error
	}{
		{name: "should build grid with valid dimensions", rows: 3, cols: 4},
		{name: "should fail when rows is zero", rows: 0, cols: 4, wantErr: ErrInvalidDimension},
		{name: "should fail when cols is negative", rows: 3, cols: -1, wantErr: ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := NewHallLayout(tt.rows, tt.cols, "Hall A")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, layout.Grid, tt.rows)

			for r, row := range layout.Grid {
				require.Len(t, row, tt.cols)

				for c, cell := range row {
					assert.Equal(t, CellID(r, c), cell.ID)
					assert.Equal(t, CellEmpty, cell.Type)
				}
			}

			assert.Empty(t, layout.ScreenCellIDs)
			assert.NoError(t, layout.Validate())
		})
	}
}

func TestParseCellID(t *testing.T) {
	tests := []struct {
		id      string
		wantRow int
		wantCol int
		wantOk  bool
	}{
		{id: "2-7", wantRow: 2, wantCol: 7, wantOk: true},
		{id: "0-0", wantRow: 0, wantCol: 0, wantOk: true},
		{id: "2", wantOk: false},
		{id: "a-b", wantOk: false},
		{id: "", wantOk: false},
		{id: "-1-3", wantOk: false},
	}

	for _, tt := range tests {
		row, col, ok := ParseCellID(tt.id)

		assert.Equal(t, tt.wantOk, ok, "id %q", tt.id)
		if tt.wantOk {
			assert.Equal(t, tt.wantRow, row)
			assert.Equal(t, tt.wantCol, col)
		}
	}
}

func TestApplyTool(t *testing.T) {
	t.Run("seat tool places a seat with the selected category", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")

		got, err := layout.ApplyTool(1, 0, ToolSeat, CategoryPremium)
		require.NoError(t, err)

		cell := got.Grid[1][0]
		assert.Equal(t, CellSeat, cell.Type)
		assert.Equal(t, CategoryPremium, cell.Category)
		assert.Equal(t, StatusAvailable, cell.Status)

		// copy-on-write: the original is untouched
		assert.Equal(t, CellEmpty, layout.Grid[1][0].Type)
	})

	t.Run("screen tool maintains the screen index both ways", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")

		withScreen, err := layout.ApplyTool(0, 1, ToolScreen, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"0-1"}, withScreen.ScreenCellIDs)
		assert.NoError(t, withScreen.Validate())

		erased, err := withScreen.ApplyTool(0, 1, ToolEraser, "")
		require.NoError(t, err)
		assert.Empty(t, erased.ScreenCellIDs)
		assert.Equal(t, CellEmpty, erased.Grid[0][1].Type)
		assert.NoError(t, erased.Validate())
	})

	t.Run("painting a seat over a screen evicts the screen index", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")
		layout, _ = layout.ApplyTool(0, 0, ToolScreen, "")

		got, err := layout.ApplyTool(0, 0, ToolSeat, CategoryStandard)
		require.NoError(t, err)

		assert.Empty(t, got.ScreenCellIDs)
		assert.Equal(t, CellSeat, got.Grid[0][0].Type)
		assert.NoError(t, got.Validate())
	})

	t.Run("eraser then seat yields a fresh available seat", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")
		layout, _ = layout.ApplyTool(0, 0, ToolScreen, "")
		layout, _ = layout.ApplyTool(0, 0, ToolEraser, "")

		got, err := layout.ApplyTool(0, 0, ToolSeat, CategoryLoveseat)
		require.NoError(t, err)

		want := Cell{ID: "0-0", Type: CellSeat, Category: CategoryLoveseat, Status: StatusAvailable}
		assert.Empty(t, cmp.Diff(want, got.Grid[0][0]))
	})

	t.Run("select tool updates category only and preserves status", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")
		layout, _ = layout.ApplyTool(0, 0, ToolSeat, CategoryStandard)
		layout.Grid[0][0].Status = StatusSelected

		got, err := layout.ApplyTool(0, 0, ToolSelect, CategoryAccessible)
		require.NoError(t, err)

		cell := got.Grid[0][0]
		assert.Equal(t, CategoryAccessible, cell.Category)
		assert.Equal(t, StatusSelected, cell.Status)
	})

	t.Run("select tool is a no-op on non-seat cells", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")

		got, err := layout.ApplyTool(0, 0, ToolSelect, CategoryPremium)
		require.NoError(t, err)

		assert.Equal(t, CellEmpty, got.Grid[0][0].Type)
		assert.Empty(t, got.Grid[0][0].Category)
	})

	t.Run("aisle tool clears seat attributes", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")
		layout, _ = layout.ApplyTool(1, 1, ToolSeat, CategoryPremium)

		got, err := layout.ApplyTool(1, 1, ToolAisle, "")
		require.NoError(t, err)

		want := Cell{ID: "1-1", Type: CellAisle}
		assert.Empty(t, cmp.Diff(want, got.Grid[1][1]))
	})

	t.Run("out-of-range position fails", func(t *testing.T) {
		layout, _ := NewHallLayout(2, 2, "Hall A")

		_, err := layout.ApplyTool(2, 0, ToolSeat, CategoryStandard)
		assert.ErrorIs(t, err, ErrCellOutOfRange)
	})
}

func TestTemplate(t *testing.T) {
	layout, _ := NewHallLayout(2, 2, "Hall A")
	layout, _ = layout.ApplyTool(0, 0, ToolSeat, CategoryStandard)
	layout, _ = layout.ApplyTool(0, 1, ToolScreen, "")

	layout.Grid[0][0].Status = StatusSelected
	layout.Grid[0][0].HasGoodView = true

	once := layout.Template()
	twice := once.Template()

	assert.Equal(t, StatusAvailable, once.Grid[0][0].Status)
	assert.False(t, once.Grid[0][0].HasGoodView)
	assert.Empty(t, cmp.Diff(once, twice))
}

func TestNormalized(t *testing.T) {
	layout, _ := NewHallLayout(1, 2, "Hall A")
	layout, _ = layout.ApplyTool(0, 0, ToolSeat, CategoryStandard)
	layout.Grid[0][0].Status = ""

	got := layout.Normalized()

	assert.Equal(t, StatusAvailable, got.Grid[0][0].Status)
	assert.Empty(t, got.Grid[0][1].Status, "non-seat cells stay untouched")
}

func TestValidate(t *testing.T) {
	valid := func() *HallLayout {
		layout, _ := NewHallLayout(2, 3, "Hall A")
		layout, _ = layout.ApplyTool(0, 1, ToolScreen, "")
		layout, _ = layout.ApplyTool(1, 1, ToolSeat, CategoryStandard)
		return layout
	}

	tests := []struct {
		name    string
		mutate  func(*HallLayout)
		wantErr error
	}{
		{
			name:   "valid layout passes",
			mutate: func(l *HallLayout) {},
		},
		{
			name:    "short row fails",
			mutate:  func(l *HallLayout) { l.Grid[1] = l.Grid[1][:2] },
			wantErr: ErrInvalidLayoutStructure,
		},
		{
			name:    "missing grid row fails",
			mutate:  func(l *HallLayout) { l.Grid = l.Grid[:1] },
			wantErr: ErrInvalidLayoutStructure,
		},
		{
			name:    "non-canonical cell id fails",
			mutate:  func(l *HallLayout) { l.Grid[0][0].ID = "9-9" },
			wantErr: ErrInvalidLayoutStructure,
		},
		{
			name:    "screen cell missing from index fails",
			mutate:  func(l *HallLayout) { l.ScreenCellIDs = nil },
			wantErr: ErrInvalidLayoutStructure,
		},
		{
			name:    "index entry without screen cell fails",
			mutate:  func(l *HallLayout) { l.Grid[0][1].Type = CellEmpty },
			wantErr: ErrInvalidLayoutStructure,
		},
		{
			name:    "non-positive dimensions fail",
			mutate:  func(l *HallLayout) { l.Rows = 0; l.Grid = nil },
			wantErr: ErrInvalidLayoutStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := valid()
			tt.mutate(layout)

			err := layout.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
