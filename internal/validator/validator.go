package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/hall-designer/internal/domain"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("layout_tool", validateTool)
	validator.RegisterValidation("seat_category", validateSeatCategory)
	validator.RegisterValidation("schedule_day", validateScheduleDay)
	validator.RegisterValidation("schedule_time", validateScheduleTime)

	return validator
}

func validateTool(fl validator.FieldLevel) bool {
	switch domain.Tool(fl.Field().String()) {
	case domain.ToolSelect, domain.ToolSeat, domain.ToolAisle, domain.ToolScreen, domain.ToolEraser:
		return true
	}

	return false
}

func validateSeatCategory(fl validator.FieldLevel) bool {
	switch domain.SeatCategory(fl.Field().String()) {
	case domain.CategoryStandard, domain.CategoryPremium, domain.CategoryAccessible, domain.CategoryLoveseat:
		return true
	}

	return false
}

func validateScheduleDay(fl validator.FieldLevel) bool {
	day := domain.Day(fl.Field().String())

	for _, v := range domain.Days {
		if v == day {
			return true
		}
	}

	return false
}

func validateScheduleTime(fl validator.FieldLevel) bool {
	t := fl.Field().String()

	for _, v := range domain.Showtimes {
		if v == t {
			return true
		}
	}

	return false
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "layout_tool":
		return "must be a known editing tool (select, seat, aisle, screen, eraser)"
	case "seat_category":
		return "must be a known seat category (standard, premium, accessible, loveseat)"
	case "schedule_day":
		return "must be a day within the schedule window"
	case "schedule_time":
		return "must be one of the fixed showtime slots"
	default:
		return "is invalid"
	}
}
