package usecase

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/test"
)

var scheduleEpoch = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newScheduleUseCase(repo *test.ScheduleRepositoryStub) *ScheduleUseCase {
	uc := NewScheduleUseCase(repo, newTestLogger())
	uc.now = func() time.Time { return scheduleEpoch }
	return uc
}

func TestAdd90DaySplitsRemaining(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	schedule, err := uc.Add90Day(context.Background(), 7, model.Customer{CustomerID: "C-1"}, 1_000_000, 100_000, 900_000, "00001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schedule.MonthlyAmount != 300_000 {
		t.Fatalf("unexpected monthly amount %d", schedule.MonthlyAmount)
	}
	want := []time.Time{
		scheduleEpoch.AddDate(0, 0, 30),
		scheduleEpoch.AddDate(0, 0, 60),
		scheduleEpoch.AddDate(0, 0, 90),
	}
	if len(schedule.PaymentDates) != 3 {
		t.Fatalf("expected 3 payment dates, got %d", len(schedule.PaymentDates))
	}
	for i, date := range schedule.PaymentDates {
		if !date.Equal(want[i]) {
			t.Fatalf("payment date %d: got %v want %v", i, date, want[i])
		}
	}
}

func TestAdd90DayLastInstallmentAbsorbsRemainder(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	schedule, err := uc.Add90Day(context.Background(), 7, model.Customer{}, 1_000_000, 0, 1_000_000, "00001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum int64
	for i := 0; i < schedule.Installments(); i++ {
		sum += schedule.InstallmentAmount(i)
	}
	if sum != schedule.RemainingAmount {
		t.Fatalf("installments sum to %d, want %d", sum, schedule.RemainingAmount)
	}
	if schedule.InstallmentAmount(2) != 333_334 {
		t.Fatalf("last installment must absorb the remainder, got %d", schedule.InstallmentAmount(2))
	}
}

func TestAdd60DaySingleDate(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	schedule, err := uc.Add60Day(context.Background(), 7, model.Customer{}, 500_000, 200_000, 300_000, "00002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule.PaymentDates) != 1 || !schedule.PaymentDates[0].Equal(scheduleEpoch.AddDate(0, 0, 60)) {
		t.Fatalf("unexpected payment dates %v", schedule.PaymentDates)
	}
	if schedule.InstallmentAmount(0) != 300_000 {
		t.Fatalf("60-day installment must equal the remaining amount, got %d", schedule.InstallmentAmount(0))
	}
}

func TestAddRejectsMismatchedAmounts(t *testing.T) {
	uc := newScheduleUseCase(test.NewScheduleRepositoryStub())

	if _, err := uc.Add60Day(context.Background(), 7, model.Customer{}, 500_000, 100_000, 300_000, "00003"); !errors.Is(err, domainErrors.ErrInvalidAmounts) {
		t.Fatalf("expected invalid amounts error, got %v", err)
	}
}

func TestAddDeduplicatesActiveOrder(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	if _, err := uc.Add60Day(context.Background(), 7, model.Customer{}, 500_000, 0, 500_000, "00004"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Add60Day(context.Background(), 7, model.Customer{}, 500_000, 0, 500_000, "00004"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected duplicate schedule rejection, got %v", err)
	}
}

func TestMarkPaymentMade90DayOutOfOrderWithDuplicates(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	schedule, err := uc.Add90Day(context.Background(), 7, model.Customer{}, 900_000, 0, 900_000, "00005")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, n := range []int{2, 2, 3, 1, 3} {
		if err := uc.MarkPaymentMade(context.Background(), schedule.ID, n); err != nil {
			t.Fatalf("mark payment %d: %v", n, err)
		}
	}

	stored := repo.Schedules[schedule.ID]
	if stored.Status != model.ScheduleStatusCompleted {
		t.Fatalf("expected completed schedule, got %s", stored.Status)
	}
	made := append([]int(nil), stored.PaymentsMade...)
	sort.Ints(made)
	if len(made) != 3 || made[0] != 0 || made[1] != 1 || made[2] != 2 {
		t.Fatalf("expected payments {0,1,2}, got %v", stored.PaymentsMade)
	}
}

func TestMarkPaymentMade60DayCompletesImmediately(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	schedule, err := uc.Add60Day(context.Background(), 7, model.Customer{}, 500_000, 0, 500_000, "00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.MarkPaymentMade(context.Background(), schedule.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Schedules[schedule.ID].Status != model.ScheduleStatusCompleted {
		t.Fatalf("single installment must complete the schedule")
	}
}

func TestMarkPaymentMadeRejectsOutOfRange(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	schedule, err := uc.Add60Day(context.Background(), 7, model.Customer{}, 500_000, 0, 500_000, "00007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range []int{0, 2, -1} {
		if err := uc.MarkPaymentMade(context.Background(), schedule.ID, n); !errors.Is(err, domainErrors.ErrInvalidInstallment) {
			t.Fatalf("payment number %d: expected invalid installment error, got %v", n, err)
		}
	}
}

func TestPendingRemindersSkipsPaidAndInactive(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	due, err := uc.Add90Day(context.Background(), 7, model.Customer{CustomerID: "C-1"}, 900_000, 0, 900_000, "00008")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paid, err := uc.Add90Day(context.Background(), 8, model.Customer{CustomerID: "C-2"}, 900_000, 0, 900_000, "00009")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.MarkPaymentMade(context.Background(), paid.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancelled, err := uc.Add90Day(context.Background(), 9, model.Customer{CustomerID: "C-3"}, 900_000, 0, 900_000, "00010")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.Cancel(context.Background(), cancelled.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reminders, err := uc.PendingReminders(context.Background(), scheduleEpoch.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("expected a single reminder, got %d", len(reminders))
	}
	reminder := reminders[0]
	if reminder.ScheduleID != due.ID {
		t.Fatalf("unexpected schedule %s", reminder.ScheduleID)
	}
	if reminder.PaymentNumber != 1 {
		t.Fatalf("unexpected payment number %d", reminder.PaymentNumber)
	}
	if reminder.Amount != 300_000 {
		t.Fatalf("unexpected amount %d", reminder.Amount)
	}
	if reminder.RemainingDue != 3 {
		t.Fatalf("unexpected remaining due %d", reminder.RemainingDue)
	}
}

func TestPendingRemindersEmptyOnQuietDay(t *testing.T) {
	repo := test.NewScheduleRepositoryStub()
	uc := newScheduleUseCase(repo)

	if _, err := uc.Add60Day(context.Background(), 7, model.Customer{}, 500_000, 0, 500_000, "00011"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reminders, err := uc.PendingReminders(context.Background(), scheduleEpoch.AddDate(0, 0, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reminders) != 0 {
		t.Fatalf("expected no reminders, got %d", len(reminders))
	}
}
