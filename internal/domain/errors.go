package domain

import "errors"

var (
	ErrInvalidDimension       = errors.New("layout rows and cols must be greater than zero")
	ErrInvalidLayoutStructure = errors.New("layout structure is invalid")
	ErrNameConflict           = errors.New("a layout already exists with this name")
	ErrRecordNotFound         = errors.New("record not found")
	ErrEditConflict           = errors.New("edit conflict")
	ErrCellOutOfRange         = errors.New("cell position is outside the layout")
)
