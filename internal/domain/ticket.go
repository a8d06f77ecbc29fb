package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID       string
	HallName string
	CellID   string
	Row      int
	Col      int
	Category SeatCategory
	Price    decimal.Decimal
}

// categoryExtras are added on top of the base price per seat category.
var categoryExtras = map[SeatCategory]decimal.Decimal{
	CategoryStandard:   decimal.Zero,
	CategoryPremium:    decimal.NewFromFloat(4.50),
	CategoryAccessible: decimal.Zero,
	CategoryLoveseat:   decimal.NewFromFloat(7.00),
}

// IssueTickets prices one ticket per selected seat, in selection order.
// Selection members that no longer point at a seat are skipped; the caller
// reconciles the selection before purchase.
func IssueTickets(l *HallLayout, sel Selection, basePrice decimal.Decimal) []Ticket {
	tickets := make([]Ticket, 0, len(sel))

	for _, id := range sel {
		row, col, ok := ParseCellID(id)
		if !ok || row >= l.Rows || col >= l.Cols {
			continue
		}

		cell := l.Grid[row][col]
		if cell.Type != CellSeat {
			continue
		}

		tickets = append(tickets, Ticket{
			ID:       uuid.New().String(),
			HallName: l.Name,
			CellID:   id,
			Row:      row,
			Col:      col,
			Category: cell.Category,
			Price:    basePrice.Add(categoryExtras[cell.Category]),
		})
	}

	return tickets
}

func TotalPrice(tickets []Ticket) decimal.Decimal {
	total := decimal.Zero

	for _, t := range tickets {
		total = total.Add(t.Price)
	}

	return total
}
