package finance

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// PaymentMethod says how money moved for an expense or a revenue record.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodDebitOrder   PaymentMethod = "DEBIT_ORDER"
)

// IsValid checks the method against the known set.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodCash, PaymentMethodDebitOrder:
		return true
	}
	return false
}

const (
	maxNumberLen      = 50
	maxDescriptionLen = 500
)

// checkMoneyDetails validates the amount and description fields shared
// by expenses and alternative revenue.
func checkMoneyDetails(amount decimal.Decimal, description string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	switch {
	case description == "":
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	case len(description) > maxDescriptionLen:
		return shared.NewDomainError("INVALID_DESCRIPTION",
			fmt.Sprintf("Description is limited to %d characters", maxDescriptionLen))
	}
	return nil
}

// requireActor guards state transitions against a missing acting user.
func requireActor(role string, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", role+" user ID is required")
	}
	return nil
}
