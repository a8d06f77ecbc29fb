package app

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/hall-designer/api"
	"github.com/metinatakli/hall-designer/internal/domain"
)

const selectionTTL = 10 * time.Minute

func soldSeatsKey(layout string) string {
	return "seats_sold:" + layout
}

func selectionKey(layout, sessionID string) string {
	return "seats_sel:" + layout + ":" + sessionID
}

// GetSeatMap returns the hall as this booking session sees it: the stored
// template with sold seats and the session's own selection layered on top.
func (app *application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sessionID := app.sessionManager.Token(r.Context())

	live, sel, err := app.liveLayout(r.Context(), name, sessionID)
	if err != nil {
		app.layoutErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		Layout:        toLayoutDocument(live),
		SelectedSeats: sel,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sessionID := app.sessionManager.Token(r.Context())

	row, col, err := readCellPosition(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	live, sel, err := app.liveLayout(r.Context(), name, sessionID)
	if err != nil {
		app.layoutErrorResponse(w, r, err)
		return
	}

	if row >= live.Rows || col >= live.Cols {
		app.badRequestResponse(w, r, domain.ErrCellOutOfRange)
		return
	}

	toggled, newSel, err := domain.ToggleSeat(live, sel, row, col)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cellID := domain.CellID(row, col)
	selKey := selectionKey(name, sessionID)

	switch {
	case newSel.Contains(cellID) && !sel.Contains(cellID):
		pipe := app.redis.TxPipeline()
		pipe.SAdd(r.Context(), selKey, cellID)
		pipe.Expire(r.Context(), selKey, selectionTTL)
		if _, err := pipe.Exec(r.Context()); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	case sel.Contains(cellID) && !newSel.Contains(cellID):
		if err := app.redis.SRem(r.Context(), selKey, cellID).Err(); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	resp := api.SeatMapResponse{
		Layout:        toLayoutDocument(toggled),
		SelectedSeats: newSel,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ConfirmPurchase turns the session's selection into sold seats and issues
// priced tickets. Confirming with nothing selected succeeds with an empty
// ticket list.
func (app *application) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sessionID := app.sessionManager.Token(r.Context())

	live, sel, err := app.liveLayout(r.Context(), name, sessionID)
	if err != nil {
		app.layoutErrorResponse(w, r, err)
		return
	}

	tickets := domain.IssueTickets(live, sel, app.config.ticketBasePrice)

	// the sold set in redis is the system of record for the purchase; the
	// next materialization of the hall shows these seats as sold
	pipe := app.redis.TxPipeline()
	if len(sel) > 0 {
		members := make([]any, len(sel))
		for i, id := range sel {
			members[i] = id
		}
		pipe.SAdd(r.Context(), soldSeatsKey(name), members...)
	}
	pipe.Del(r.Context(), selectionKey(name, sessionID))

	if _, err := pipe.Exec(r.Context()); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.PurchaseResponse{
		Tickets:    toApiTickets(tickets),
		TotalPrice: domain.TotalPrice(tickets),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ClearSelection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sessionID := app.sessionManager.Token(r.Context())

	err := app.redis.Del(r.Context(), selectionKey(name, sessionID)).Err()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// liveLayout materializes the booking view of a hall: stored template, sold
// seats from the hall-wide set, then this session's selection. Selection
// membership is reconciled against the layout on every materialization, so
// seats that were edited away or sold out from under a session drop out of
// its selection here.
func (app *application) liveLayout(ctx context.Context, name, sessionID string) (*domain.HallLayout, domain.Selection, error) {
	layout, err := app.loadLayout(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	live := layout.Normalized()

	soldIDs, err := app.redis.SMembers(ctx, soldSeatsKey(name)).Result()
	if err != nil {
		return nil, nil, err
	}

	for _, id := range soldIDs {
		if cell := seatAt(live, id); cell != nil {
			cell.Status = domain.StatusSold
		}
	}

	selIDs, err := app.redis.SMembers(ctx, selectionKey(name, sessionID)).Result()
	if err != nil {
		return nil, nil, err
	}

	sort.Strings(selIDs)

	for _, id := range selIDs {
		if cell := seatAt(live, id); cell != nil && cell.Status == domain.StatusAvailable {
			cell.Status = domain.StatusSelected
		}
	}

	sel := domain.ReconcileSelection(live, domain.Selection(selIDs))

	if len(sel) < len(selIDs) {
		stale := make([]any, 0, len(selIDs)-len(sel))
		for _, id := range selIDs {
			if !sel.Contains(id) {
				stale = append(stale, id)
			}
		}

		if err := app.redis.SRem(ctx, selectionKey(name, sessionID), stale...).Err(); err != nil {
			app.logger.Error("failed to drop stale selection members", "layout", name, "error", err)
		}
	}

	return live, sel, nil
}

func seatAt(l *domain.HallLayout, id string) *domain.Cell {
	row, col, ok := domain.ParseCellID(id)
	if !ok || row >= l.Rows || col >= l.Cols {
		return nil
	}

	cell := &l.Grid[row][col]
	if cell.Type != domain.CellSeat {
		return nil
	}

	return cell
}

func toApiTickets(tickets []domain.Ticket) []api.Ticket {
	out := make([]api.Ticket, len(tickets))

	for i, t := range tickets {
		out[i] = api.Ticket{
			Id:       t.ID,
			HallName: t.HallName,
			SeatId:   t.CellID,
			Row:      t.Row,
			Column:   t.Col,
			Category: string(t.Category),
			Price:    t.Price,
		}
	}

	return out
}
