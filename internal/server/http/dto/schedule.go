package dto

import "time"

// CreateScheduleRequest describes a deferred-payment plan creation
// payload. The customer snapshot is taken from the authenticated
// account.
type CreateScheduleRequest struct {
	OrderID         string `json:"order_id" binding:"required"`
	TotalAmount     int64  `json:"total_amount" binding:"required"`
	AdvancePaid     int64  `json:"advance_paid"`
	RemainingAmount int64  `json:"remaining_amount" binding:"required"`
}

// MarkPaymentRequest identifies the installment a staff member marked
// as received. Payment numbers are 1-based.
type MarkPaymentRequest struct {
	PaymentNumber int `json:"payment_number" binding:"required"`
}

// ScheduleResponse is the external representation of a payment schedule.
type ScheduleResponse struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"order_id"`
	CustomerID      string      `json:"customer_id"`
	Plan            string      `json:"plan"`
	TotalAmount     int64       `json:"total_amount"`
	AdvancePaid     int64       `json:"advance_paid"`
	RemainingAmount int64       `json:"remaining_amount"`
	MonthlyAmount   int64       `json:"monthly_amount,omitempty"`
	PaymentDates    []time.Time `json:"payment_dates"`
	PaymentsMade    []int       `json:"payments_made"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

// RemindersRunResponse reports how many reminders a manual run sent.
type RemindersRunResponse struct {
	Sent int `json:"sent"`
}
