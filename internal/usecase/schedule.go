package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/domain/repository"
)

// ScheduleUseCase owns deferred-payment schedules and reminder
// computation.
type ScheduleUseCase struct {
	schedules repository.ScheduleRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduleUseCase constructs ScheduleUseCase.
func NewScheduleUseCase(schedules repository.ScheduleRepository, logger *slog.Logger) *ScheduleUseCase {
	return &ScheduleUseCase{schedules: schedules, logger: logger, now: time.Now}
}

// Add60Day creates a single-installment schedule due 60 days from now.
func (u *ScheduleUseCase) Add60Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error) {
	return u.add(ctx, userID, customer, total, advance, remaining, orderID, model.Plan60Day)
}

// Add90Day creates a three-installment schedule due at 30, 60 and 90
// days from now.
func (u *ScheduleUseCase) Add90Day(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string) (*model.PaymentSchedule, error) {
	return u.add(ctx, userID, customer, total, advance, remaining, orderID, model.Plan90Day)
}

func (u *ScheduleUseCase) add(ctx context.Context, userID int64, customer model.Customer, total, advance, remaining int64, orderID string, plan model.PaymentPlan) (*model.PaymentSchedule, error) {
	if advance+remaining != total {
		return nil, domainErrors.ErrInvalidAmounts
	}

	exists, err := u.schedules.HasActiveForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainErrors.ErrAlreadyExists
	}

	now := u.now().UTC()
	schedule := &model.PaymentSchedule{
		ID:              fmt.Sprintf("%d_%s_%d", userID, orderID, now.Unix()),
		UserID:          userID,
		Customer:        customer,
		OrderID:         orderID,
		TotalAmount:     total,
		AdvancePaid:     advance,
		RemainingAmount: remaining,
		Plan:            plan,
		PaymentsMade:    []int{},
		Status:          model.ScheduleStatusActive,
		CreatedAt:       now,
	}

	switch plan {
	case model.Plan60Day:
		schedule.PaymentDates = []time.Time{now.AddDate(0, 0, 60)}
	case model.Plan90Day:
		schedule.MonthlyAmount = remaining / 3
		schedule.PaymentDates = []time.Time{
			now.AddDate(0, 0, 30),
			now.AddDate(0, 0, 60),
			now.AddDate(0, 0, 90),
		}
	}

	if err := u.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}

	u.logger.Info("payment schedule created",
		slog.String("schedule", schedule.ID),
		slog.String("order", orderID),
		slog.String("plan", string(plan)))
	return schedule, nil
}

// PendingReminders scans active schedules and returns a reminder for
// each installment due on asOf that has not been paid. Pure read: safe
// to call repeatedly for the same date.
func (u *ScheduleUseCase) PendingReminders(ctx context.Context, asOf time.Time) ([]model.Reminder, error) {
	schedules, err := u.schedules.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var reminders []model.Reminder
	for _, schedule := range schedules {
		for i, date := range schedule.PaymentDates {
			if !sameDay(date, asOf) || schedule.Paid(i) {
				continue
			}
			reminders = append(reminders, model.Reminder{
				ScheduleID:    schedule.ID,
				UserID:        schedule.UserID,
				Customer:      schedule.Customer,
				OrderID:       schedule.OrderID,
				Plan:          schedule.Plan,
				PaymentNumber: i + 1,
				Amount:        schedule.InstallmentAmount(i),
				RemainingDue:  schedule.Installments() - len(schedule.PaymentsMade),
				DueDate:       date,
			})
		}
	}
	return reminders, nil
}

// MarkPaymentMade records the given 1-based installment as paid.
// Recording an already-paid installment is a no-op. The schedule moves
// to completed once every installment is recorded; the single 60-day
// installment completes the schedule immediately.
func (u *ScheduleUseCase) MarkPaymentMade(ctx context.Context, scheduleID string, paymentNumber int) error {
	schedule, err := u.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if paymentNumber < 1 || paymentNumber > schedule.Installments() {
		return domainErrors.ErrInvalidInstallment
	}

	if err := u.schedules.MarkPayment(ctx, scheduleID, paymentNumber-1); err != nil {
		return err
	}

	u.logger.Info("installment recorded",
		slog.String("schedule", scheduleID),
		slog.Int("payment_number", paymentNumber))
	return nil
}

// Cancel deactivates a schedule; no further reminders are produced for
// it.
func (u *ScheduleUseCase) Cancel(ctx context.Context, scheduleID string) error {
	return u.schedules.Cancel(ctx, scheduleID)
}

// ListByUser returns all schedules linked to the user.
func (u *ScheduleUseCase) ListByUser(ctx context.Context, userID int64) ([]model.PaymentSchedule, error) {
	return u.schedules.ListByUser(ctx, userID)
}

// Get returns the schedule with the given id.
func (u *ScheduleUseCase) Get(ctx context.Context, scheduleID string) (*model.PaymentSchedule, error) {
	return u.schedules.GetByID(ctx, scheduleID)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
