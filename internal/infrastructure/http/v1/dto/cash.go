package dto

import (
	"time"

	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/cash"
)

// CreateOpeningRequest opens a cash session.
type CreateOpeningRequest struct {
	OpeningDate       *time.Time  `json:"openingDate"`
	Shift             string      `json:"shift" binding:"max=50"`
	InitialCashAmount types.Money `json:"initialCashAmount" binding:"money_gt0"`
	Notes             *string     `json:"notes"`
}

// ToInput converts the request to the service input.
func (r CreateOpeningRequest) ToInput() cash.OpeningInput {
	in := cash.OpeningInput{
		Shift:             r.Shift,
		InitialCashAmount: r.InitialCashAmount,
		Notes:             r.Notes,
	}
	if r.OpeningDate != nil {
		in.OpeningDate = *r.OpeningDate
	}
	return in
}

// CreateMovementRequest records cash put into or taken out of the drawer.
type CreateMovementRequest struct {
	MovementType string      `json:"movementType" binding:"required,oneof=income withdrawal"`
	Amount       types.Money `json:"amount" binding:"money_gt0"`
	Description  string      `json:"description" binding:"required,max=500"`
}

// ToInput converts the request to the service input.
func (r CreateMovementRequest) ToInput() cash.MovementInput {
	return cash.MovementInput{
		Type:        cash.MovementType(r.MovementType),
		Amount:      r.Amount,
		Description: r.Description,
	}
}

// CreateClosureRequest closes the active session.
type CreateClosureRequest struct {
	ClosureDate *time.Time   `json:"closureDate"`
	Shift       string       `json:"shift" binding:"max=50"`
	CashCounted *types.Money `json:"cashCounted"`
	Notes       *string      `json:"notes"`
}

// ToInput converts the request to the service input.
func (r CreateClosureRequest) ToInput() cash.ClosureInput {
	in := cash.ClosureInput{
		Shift:       r.Shift,
		CashCounted: r.CashCounted,
		Notes:       r.Notes,
	}
	if r.ClosureDate != nil {
		in.ClosureDate = *r.ClosureDate
	}
	return in
}

// ListClosuresRequest selects closures by calendar day, YYYY-MM-DD.
type ListClosuresRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}
