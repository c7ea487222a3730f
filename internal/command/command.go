package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/decoteen/orderdesk/internal/domain/model"
)

// ErrUnknownCommand marks a callback payload that does not decode into
// any known command. Rejected at the boundary; there is no catch-all
// routing.
var ErrUnknownCommand = errors.New("unknown callback command")

// Kind discriminates the callback command variants.
type Kind int

const (
	KindPaymentConfirmed Kind = iota + 1
	KindContactMade
	KindRemindTomorrow
	KindOrderStatus
)

const (
	prefixPaymentConfirmed = "payment_confirmed_"
	prefixContactMade      = "contact_made_"
	prefixRemindTomorrow   = "remind_tomorrow_"
	prefixOrderStatus      = "order_status_"
)

// Command is the decoded form of a chat button callback. Exactly the
// fields for its Kind are set.
type Command struct {
	Kind Kind

	// schedule commands
	ScheduleID    string
	PaymentNumber int

	// order commands
	OrderID string
	Status  model.OrderStatus
}

// Parse decodes a raw callback payload into a Command.
func Parse(data string) (Command, error) {
	switch {
	case strings.HasPrefix(data, prefixPaymentConfirmed):
		return parseScheduleCommand(KindPaymentConfirmed, strings.TrimPrefix(data, prefixPaymentConfirmed))
	case strings.HasPrefix(data, prefixContactMade):
		return parseScheduleCommand(KindContactMade, strings.TrimPrefix(data, prefixContactMade))
	case strings.HasPrefix(data, prefixRemindTomorrow):
		return parseScheduleCommand(KindRemindTomorrow, strings.TrimPrefix(data, prefixRemindTomorrow))
	case strings.HasPrefix(data, prefixOrderStatus):
		return parseOrderStatus(strings.TrimPrefix(data, prefixOrderStatus))
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, data)
}

// schedule ids contain underscores, the payment number is the segment
// after the last one
func parseScheduleCommand(kind Kind, rest string) (Command, error) {
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 || idx == len(rest)-1 {
		return Command{}, fmt.Errorf("%w: malformed schedule payload %q", ErrUnknownCommand, rest)
	}

	number, err := strconv.Atoi(rest[idx+1:])
	if err != nil {
		return Command{}, fmt.Errorf("%w: malformed payment number %q", ErrUnknownCommand, rest)
	}

	return Command{Kind: kind, ScheduleID: rest[:idx], PaymentNumber: number}, nil
}

func parseOrderStatus(rest string) (Command, error) {
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 || idx == len(rest)-1 {
		return Command{}, fmt.Errorf("%w: malformed order payload %q", ErrUnknownCommand, rest)
	}

	status := model.OrderStatus(rest[idx+1:])
	if !status.Known() {
		return Command{}, fmt.Errorf("%w: unknown status %q", ErrUnknownCommand, rest[idx+1:])
	}

	return Command{Kind: KindOrderStatus, OrderID: rest[:idx], Status: status}, nil
}

// PaymentConfirmed encodes the "payment made" affordance payload.
func PaymentConfirmed(scheduleID string, paymentNumber int) string {
	return fmt.Sprintf("%s%s_%d", prefixPaymentConfirmed, scheduleID, paymentNumber)
}

// ContactMade encodes the "contact made" affordance payload.
func ContactMade(scheduleID string, paymentNumber int) string {
	return fmt.Sprintf("%s%s_%d", prefixContactMade, scheduleID, paymentNumber)
}

// RemindTomorrow encodes the "remind tomorrow" affordance payload.
func RemindTomorrow(scheduleID string, paymentNumber int) string {
	return fmt.Sprintf("%s%s_%d", prefixRemindTomorrow, scheduleID, paymentNumber)
}

// OrderStatus encodes an admin status-transition affordance payload.
func OrderStatus(orderID string, status model.OrderStatus) string {
	return fmt.Sprintf("%s%s_%s", prefixOrderStatus, orderID, status)
}
