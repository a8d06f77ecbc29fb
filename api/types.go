// Package api holds the request and response shapes of the HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type ManagerSessionRequest struct {
	Passcode string `json:"passcode" validate:"required"`
}

type CreateLayoutRequest struct {
	Name string `json:"name" validate:"required,min=1,max=60"`
	Rows int    `json:"rows" validate:"required,min=1,max=40"`
	Cols int    `json:"cols" validate:"required,min=1,max=40"`
}

type ApplyToolRequest struct {
	Tool     string `json:"tool" validate:"required,layout_tool"`
	Category string `json:"category" validate:"omitempty,seat_category"`
}

type Cell struct {
	Id          string `json:"id"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty"`
	IsOccluded  bool   `json:"isOccluded,omitempty"`
	HasGoodView bool   `json:"hasGoodView,omitempty"`
}

// LayoutDocument is both the API representation of a layout and its
// import/export file format.
type LayoutDocument struct {
	Name          string   `json:"name"`
	Rows          int      `json:"rows"`
	Cols          int      `json:"cols"`
	Grid          [][]Cell `json:"grid"`
	ScreenCellIds []string `json:"screenCellIds"`
}

type LayoutListResponse struct {
	Layouts []string `json:"layouts"`
}

type SeatMapResponse struct {
	Layout        LayoutDocument `json:"layout"`
	SelectedSeats []string       `json:"selectedSeats"`
}

type Ticket struct {
	Id       string          `json:"id"`
	HallName string          `json:"hallName"`
	SeatId   string          `json:"seatId"`
	Row      int             `json:"row"`
	Column   int             `json:"column"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type PurchaseResponse struct {
	Tickets    []Ticket        `json:"tickets"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type FilmSummary struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PosterUrl   string `json:"posterUrl,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

type FilmListResponse struct {
	Films    []FilmSummary `json:"films"`
	Metadata *Metadata     `json:"metadata,omitempty"`
}

type FilmListParams struct {
	Page     int    `validate:"omitempty,min=1"`
	PageSize int    `validate:"omitempty,min=1,max=50"`
	Term     string `validate:"omitempty,max=100"`
	Sort     string `validate:"omitempty,oneof=id title release_date -id -title -release_date"`
}

type ScheduleEntry struct {
	Day      string `json:"day" validate:"required,schedule_day"`
	Time     string `json:"time" validate:"required,schedule_time"`
	HallName string `json:"hallName" validate:"required"`
}

type ScheduleResponse struct {
	FilmId   int             `json:"filmId"`
	Entries  []ScheduleEntry `json:"entries"`
	Override bool            `json:"override"`
}

type HallPreferencesRequest struct {
	Halls []string `json:"halls" validate:"dive,required"`
}

type CustomScheduleRequest struct {
	Entries []ScheduleEntry `json:"entries" validate:"required,dive"`
}
