package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/hall-designer/api"
	"github.com/metinatakli/hall-designer/internal/domain"
)

func (app *application) ListLayouts(w http.ResponseWriter, r *http.Request) {
	names, err := app.layoutRepo.ListNames(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.LayoutListResponse{Layouts: names}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var input api.CreateLayoutRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	layout, err := domain.NewHallLayout(input.Rows, input.Cols, input.Name)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.layoutRepo.Create(r.Context(), layout)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameConflict):
			app.conflictResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.invalidateScheduleCache(r.Context())

	err = app.writeJSON(w, http.StatusCreated, toLayoutDocument(layout), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetLayout(w http.ResponseWriter, r *http.Request) {
	layout, err := app.loadLayout(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		app.layoutErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toLayoutDocument(layout.Normalized()), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SaveLayout stores a layout template under an existing name. Overwriting is
// an explicit decision: the caller must confirm with ?overwrite=true.
func (app *application) SaveLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var input api.LayoutDocument

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.Name != name {
		app.badRequestResponse(w, r, fmt.Errorf("layout name %q does not match URL", input.Name))
		return
	}

	layout := toDomainLayout(input)

	if err := layout.Validate(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	template := layout.Template()

	if r.URL.Query().Get("overwrite") != "true" {
		err = app.layoutRepo.Create(r.Context(), template)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNameConflict):
				app.conflictResponse(w, r, fmt.Errorf("layout %q already exists, pass overwrite=true to replace it", name))
			default:
				app.serverErrorResponse(w, r, err)
			}

			return
		}

		app.invalidateScheduleCache(r.Context())

		err = app.writeJSON(w, http.StatusCreated, toLayoutDocument(template), nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.layoutRepo.Update(r.Context(), template)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toLayoutDocument(template), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := app.layoutRepo.Delete(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	// drop the hall's live booking state along with it
	if err := app.redis.Del(r.Context(), soldSeatsKey(name)).Err(); err != nil {
		app.contextGetLogger(r).Error("failed to drop sold seats for deleted layout", "layout", name, "error", err)
	}

	app.invalidateScheduleCache(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) ApplyLayoutTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	row, col, err := readCellPosition(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ApplyToolRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	tool := domain.Tool(input.Tool)
	category := domain.SeatCategory(input.Category)

	if tool == domain.ToolSeat && category == "" {
		category = domain.CategoryStandard
	}

	layout, err := app.loadLayout(r.Context(), name)
	if err != nil {
		app.layoutErrorResponse(w, r, err)
		return
	}

	if row >= layout.Rows || col >= layout.Cols {
		app.badRequestResponse(w, r, domain.ErrCellOutOfRange)
		return
	}

	wasSeat := layout.Grid[row][col].Type == domain.CellSeat

	edited, err := layout.ApplyTool(row, col, tool, category)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.layoutRepo.Update(r.Context(), edited.Template())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	// a cell that stops being a seat can no longer be sold or selected;
	// per-session selections catch up on their next materialization
	if wasSeat && edited.Grid[row][col].Type != domain.CellSeat {
		cellID := domain.CellID(row, col)
		if err := app.redis.SRem(r.Context(), soldSeatsKey(name), cellID).Err(); err != nil {
			app.contextGetLogger(r).Error("failed to evict retyped cell from sold set", "cell", cellID, "error", err)
		}
	}

	err = app.writeJSON(w, http.StatusOK, toLayoutDocument(edited), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetLayoutPreview returns the layout annotated with per-seat visibility.
// The annotations are display-only and never stored.
func (app *application) GetLayoutPreview(w http.ResponseWriter, r *http.Request) {
	layout, err := app.loadLayout(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		app.layoutErrorResponse(w, r, err)
		return
	}

	preview := domain.EstimateView(layout)

	err = app.writeJSON(w, http.StatusOK, toLayoutDocument(preview), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ExportLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	layout, err := app.loadLayout(r.Context(), name)
	if err != nil {
		app.layoutErrorResponse(w, r, err)
		return
	}

	headers := http.Header{
		"Content-Disposition": []string{fmt.Sprintf("attachment; filename=%q", name+".json")},
	}

	err = app.writeJSON(w, http.StatusOK, toLayoutDocument(layout.Template()), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ImportLayout accepts a layout JSON document. Imported data is untrusted
// and must pass structural validation before it is stored.
func (app *application) ImportLayout(w http.ResponseWriter, r *http.Request) {
	var input api.LayoutDocument

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	layout := toDomainLayout(input)

	if err := layout.Validate(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	template := layout.Template()

	err = app.layoutRepo.Create(r.Context(), template)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameConflict):
			app.conflictResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.invalidateScheduleCache(r.Context())

	err = app.writeJSON(w, http.StatusCreated, toLayoutDocument(template), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loadLayout fetches a stored layout and re-validates it. Stored data is
// treated like any other external input at the load boundary.
func (app *application) loadLayout(ctx context.Context, name string) (*domain.HallLayout, error) {
	layout, err := app.layoutRepo.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := layout.Validate(); err != nil {
		return nil, err
	}

	return layout, nil
}

func (app *application) layoutErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func toLayoutDocument(l *domain.HallLayout) api.LayoutDocument {
	grid := make([][]api.Cell, len(l.Grid))

	for r, gridRow := range l.Grid {
		grid[r] = make([]api.Cell, len(gridRow))

		for c, cell := range gridRow {
			grid[r][c] = api.Cell{
				Id:          cell.ID,
				Type:        string(cell.Type),
				Category:    string(cell.Category),
				Status:      string(cell.Status),
				IsOccluded:  cell.IsOccluded,
				HasGoodView: cell.HasGoodView,
			}
		}
	}

	return api.LayoutDocument{
		Name:          l.Name,
		Rows:          l.Rows,
		Cols:          l.Cols,
		Grid:          grid,
		ScreenCellIds: l.ScreenCellIDs,
	}
}

func toDomainLayout(doc api.LayoutDocument) *domain.HallLayout {
	grid := make([][]domain.Cell, len(doc.Grid))

	for r, gridRow := range doc.Grid {
		grid[r] = make([]domain.Cell, len(gridRow))

		for c, cell := range gridRow {
			grid[r][c] = domain.Cell{
				ID:       cell.Id,
				Type:     domain.CellType(cell.Type),
				Category: domain.SeatCategory(cell.Category),
				Status:   domain.SeatStatus(cell.Status),
			}
		}
	}

	screenCellIDs := doc.ScreenCellIds
	if screenCellIDs == nil {
		screenCellIDs = []string{}
	}

	return &domain.HallLayout{
		Name:          doc.Name,
		Rows:          doc.Rows,
		Cols:          doc.Cols,
		Grid:          grid,
		ScreenCellIDs: screenCellIDs,
	}
}
