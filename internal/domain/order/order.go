package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusDelivered || target == StatusCancelled
	case StatusDelivered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// DiscountKind represents the kind of order-level discount
type DiscountKind string

const (
	DiscountNone    DiscountKind = "NONE"
	DiscountPercent DiscountKind = "PERCENT"
	DiscountFixed   DiscountKind = "FIXED"
)

// IsValid checks if the discount kind is known
func (d DiscountKind) IsValid() bool {
	switch d {
	case DiscountNone, DiscountPercent, DiscountFixed:
		return true
	}
	return false
}

// PaymentMethod represents how the order will be paid
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCheque       PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is known
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentBankTransfer, PaymentCheque:
		return true
	}
	return false
}

// RequiresReference reports whether the method needs a reference number
func (p PaymentMethod) RequiresReference() bool {
	return p != PaymentCash
}

// Line represents a line item in an order.
// Price and packaging are snapshotted at draft-creation time so historical
// orders are immune to later product changes.
type Line struct {
	ID                    uuid.UUID
	OrderID               uuid.UUID
	ProductID             uuid.UUID
	SKUCodeSnapshot       string
	CasesOrdered          int64
	PiecesPerCaseSnapshot int64
	UnitPriceSnapshot     decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewLine creates an order line with snapshots taken from the live product.
// A line ordered by piece is stored with piecesPerCase = 1.
func NewLine(orderID, productID uuid.UUID, skuCode string, casesOrdered, piecesPerCase int64, unitPrice decimal.Decimal) (*Line, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if casesOrdered <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if piecesPerCase <= 0 {
		return nil, shared.NewDomainError("INVALID_CASE_SIZE", "Pieces per case must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &Line{
		ID:                    uuid.New(),
		OrderID:               orderID,
		ProductID:             productID,
		SKUCodeSnapshot:       skuCode,
		CasesOrdered:          casesOrdered,
		PiecesPerCaseSnapshot: piecesPerCase,
		UnitPriceSnapshot:     unitPrice,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// ComputedPieces returns the number of pieces this line commits
func (l *Line) ComputedPieces() int64 {
	return l.CasesOrdered * l.PiecesPerCaseSnapshot
}

// LineTotal returns the line amount from the stored snapshots
func (l *Line) LineTotal() decimal.Decimal {
	return l.UnitPriceSnapshot.Mul(decimal.NewFromInt(l.ComputedPieces()))
}

// UpdateQuantity changes the ordered quantity
func (l *Line) UpdateQuantity(casesOrdered int64) error {
	if casesOrdered <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	l.CasesOrdered = casesOrdered
	l.UpdatedAt = time.Now()
	return nil
}

// Order represents an order aggregate root.
// It owns the lifecycle from mutable draft to immutable commitment.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	CreatedByUserID uuid.UUID
	Status          Status
	Lines           []Line
	TotalAmount     decimal.Decimal
	DiscountKind    DiscountKind
	DiscountAmount  decimal.Decimal
	PaymentMethod   PaymentMethod
	ReferenceNumber string
	ConfirmedAt     *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// NewOrder creates a new draft order
func NewOrder(orderNumber string, createdBy uuid.UUID, paymentMethod PaymentMethod, referenceNumber string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Creating user ID cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", paymentMethod))
	}
	if paymentMethod.RequiresReference() && referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Reference number is required for %s payments", paymentMethod))
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CreatedByUserID:   createdBy,
		Status:            StatusDraft,
		Lines:             make([]Line, 0),
		TotalAmount:       decimal.Zero,
		DiscountKind:      DiscountNone,
		DiscountAmount:    decimal.Zero,
		PaymentMethod:     paymentMethod,
		ReferenceNumber:   referenceNumber,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a line to a draft order, snapshotting the product's price
// and packaging as they are right now.
func (o *Order) AddLine(productID uuid.UUID, skuCode string, casesOrdered, piecesPerCase int64, unitPrice decimal.Decimal) (*Line, error) {
	if o.Status != StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft order")
	}

	for _, line := range o.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	line, err := NewLine(o.ID, productID, skuCode, casesOrdered, piecesPerCase, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.RecalculateTotal()
	o.UpdatedAt = time.Now()

	return line, nil
}

// UpdateLineQuantity updates the quantity of an existing line.
// Only allowed in DRAFT status.
func (o *Order) UpdateLineQuantity(lineID uuid.UUID, casesOrdered int64) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines of a non-draft order")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdateQuantity(casesOrdered); err != nil {
				return err
			}
			o.RecalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from a draft order
func (o *Order) RemoveLine(lineID uuid.UUID) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.RecalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// ApplyDiscount sets the order-level discount.
// Only allowed in DRAFT status.
func (o *Order) ApplyDiscount(kind DiscountKind, amount decimal.Decimal) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft order")
	}
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT", fmt.Sprintf("Unknown discount kind %q", kind))
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if kind == DiscountPercent && amount.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Percent discount cannot exceed 100")
	}
	if kind == DiscountNone && !amount.IsZero() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount must be zero when no discount is set")
	}

	o.DiscountKind = kind
	o.DiscountAmount = amount
	o.RecalculateTotal()
	o.UpdatedAt = time.Now()

	return nil
}

// SetPaymentMethod updates the payment method of a draft order
func (o *Order) SetPaymentMethod(method PaymentMethod, referenceNumber string) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change payment method of a non-draft order")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if method.RequiresReference() && referenceNumber == "" {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Reference number is required for %s payments", method))
	}

	o.PaymentMethod = method
	o.ReferenceNumber = referenceNumber
	o.UpdatedAt = time.Now()

	return nil
}

// Confirm transitions the order from DRAFT to CONFIRMED.
// Stock deduction happens in the application service inside the same
// transaction; this method only guards the state machine and total.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm order without lines")
	}

	o.RecalculateTotal()

	now := time.Now()
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// Deliver marks a confirmed order as delivered. No stock effect: the
// pieces were committed at confirmation time.
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(StatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = StatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels a draft or confirmed order. For confirmed orders the
// application service restores stock in the same transaction.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	wasConfirmed := o.Status == StatusConfirmed
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o, wasConfirmed))

	return nil
}

// RecalculateTotal recomputes the order total from the line snapshots and
// the stored discount. Caller-supplied totals are never trusted.
func (o *Order) RecalculateTotal() {
	subtotal := decimal.Zero
	for _, line := range o.Lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	total := subtotal
	switch o.DiscountKind {
	case DiscountPercent:
		total = subtotal.Sub(subtotal.Mul(o.DiscountAmount).Div(decimal.NewFromInt(100)))
	case DiscountFixed:
		total = subtotal.Sub(o.DiscountAmount)
	}
	if total.IsNegative() {
		total = decimal.Zero
	}

	o.TotalAmount = total.Round(2)
}

// CanModify returns true if the order's fields may still be edited directly
func (o *Order) CanModify() bool {
	return o.Status == StatusDraft
}

// IsOwnedBy reports whether the given user created this order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.CreatedByUserID == userID
}

// IsDraft returns true if the order is in draft status
func (o *Order) IsDraft() bool {
	return o.Status == StatusDraft
}

// IsConfirmed returns true if the order is confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == StatusConfirmed
}

// IsDelivered returns true if the order is delivered
func (o *Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.IsDelivered() || o.IsCancelled()
}

// GetLine returns a line by its ID
func (o *Order) GetLine(lineID uuid.UUID) *Line {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// GetLineByProduct returns a line by product ID
func (o *Order) GetLineByProduct(productID uuid.UUID) *Line {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// TotalPieces returns the sum of computed pieces across all lines
func (o *Order) TotalPieces() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.ComputedPieces()
	}
	return total
}
