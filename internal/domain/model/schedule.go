package model

import "time"

// PaymentPlan distinguishes the two deferred-payment shapes.
type PaymentPlan string

const (
	Plan60Day PaymentPlan = "60day"
	Plan90Day PaymentPlan = "90day"
)

// ScheduleStatus describes schedule lifecycle.
type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// PaymentSchedule tracks remaining obligations of a deferred-payment
// plan. A 60-day plan carries a single due date for the full remaining
// amount; a 90-day plan carries three monthly installments.
type PaymentSchedule struct {
	ID              string
	UserID          int64
	Customer        Customer
	OrderID         string
	TotalAmount     int64
	AdvancePaid     int64
	RemainingAmount int64
	Plan            PaymentPlan
	MonthlyAmount   int64 // 90-day plans only
	PaymentDates    []time.Time
	PaymentsMade    []int // 0-based installment indices
	Status          ScheduleStatus
	CreatedAt       time.Time
}

// Installments returns how many payments the plan consists of.
func (s PaymentSchedule) Installments() int {
	if s.Plan == Plan60Day {
		return 1
	}
	return 3
}

// Paid reports whether the 0-based installment index is already
// recorded in PaymentsMade.
func (s PaymentSchedule) Paid(index int) bool {
	for _, i := range s.PaymentsMade {
		if i == index {
			return true
		}
	}
	return false
}

// InstallmentAmount returns the amount due for the 0-based installment
// index. The last 90-day installment absorbs integer-division remainder
// so the three installments sum to the remaining amount exactly.
func (s PaymentSchedule) InstallmentAmount(index int) int64 {
	if s.Plan == Plan60Day {
		return s.RemainingAmount
	}
	if index == s.Installments()-1 {
		return s.RemainingAmount - s.MonthlyAmount*int64(s.Installments()-1)
	}
	return s.MonthlyAmount
}

// Reminder is a computed, date-triggered notice that an installment is
// due. Produced by scanning active schedules; carries no state of its
// own.
type Reminder struct {
	ScheduleID    string
	UserID        int64
	Customer      Customer
	OrderID       string
	Plan          PaymentPlan
	PaymentNumber int // 1-based
	Amount        int64
	RemainingDue  int // installments still unpaid, this one included
	DueDate       time.Time
}
