package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/decoteen/orderdesk/internal/command"
	"github.com/decoteen/orderdesk/internal/domain/model"
)

// statusMessages are the customer-facing texts keyed by order status.
var statusMessages = map[model.OrderStatus]string{
	model.OrderStatusPending:   "Your order has been received and is being reviewed.",
	model.OrderStatusContacted: "Our support team is working on your order.",
	model.OrderStatusConfirmed: "Great news! Your order has been confirmed and registered in our bookkeeping system. We will contact you soon to arrange delivery.",
	model.OrderStatusPreparing: "Your order is being prepared.",
	model.OrderStatusReady:     "Your order is ready for shipment.",
	model.OrderStatusShipped:   "Your order has been shipped.",
	model.OrderStatusDelivered: "Your order has been delivered.",
	model.OrderStatusCompleted: "Your order is complete. Thank you for shopping with us!",
	model.OrderStatusCancelled: "Your order has been cancelled. Please contact support for details.",
}

// Notifier renders and dispatches messages to the customer and staff
// channels. Send failures are retried a bounded number of times and
// never propagate to the caller; the authoritative state has already
// been persisted by the time a notification goes out.
type Notifier struct {
	gateway     Gateway
	staffChatID int64
	retries     int
	logger      *slog.Logger
}

// NewNotifier constructs Notifier.
func NewNotifier(gateway Gateway, staffChatID int64, retries int, logger *slog.Logger) *Notifier {
	if retries <= 0 {
		retries = 1
	}
	return &Notifier{gateway: gateway, staffChatID: staffChatID, retries: retries, logger: logger}
}

// OrderCreated forwards the new-order card to the staff channel,
// attaching the receipt image when one was uploaded, and tells the
// customer the order is pending.
func (n *Notifier) OrderCreated(ctx context.Context, order *model.Order, receiptRef string) {
	if receiptRef != "" {
		caption := fmt.Sprintf("Payment receipt for order %s", order.ID)
		if err := n.gateway.SendPhoto(ctx, n.staffChatID, receiptRef, caption); err != nil {
			n.logger.Error("receipt forwarding failed",
				slog.String("order", order.ID),
				slog.String("error", err.Error()))
		}
	}

	if err := n.gateway.Send(ctx, n.staffChatID, renderOrderCard(order), adminButtons(order.ID)); err != nil {
		n.logger.Error("staff notification failed",
			slog.String("order", order.ID),
			slog.String("error", err.Error()))
	}

	n.StatusChanged(ctx, order.UserID, order.ID, model.OrderStatusPending, "")
}

// StatusChanged tells the customer about a status transition. After the
// configured number of failed attempts a minimal fallback message is
// sent so the customer always hears something.
func (n *Notifier) StatusChanged(ctx context.Context, chatID int64, orderID string, status model.OrderStatus, actor string) {
	text, ok := statusMessages[status]
	if !ok {
		text = fmt.Sprintf("Your order status changed to %s.", status)
	}

	message := fmt.Sprintf("Order %s\n%s", orderID, text)
	if actor != "" && status != model.OrderStatusPending {
		message += fmt.Sprintf("\nHandled by: %s", actor)
	}

	for attempt := 1; attempt <= n.retries; attempt++ {
		err := n.gateway.Send(ctx, chatID, message, nil)
		if err == nil {
			return
		}
		n.logger.Warn("customer notification attempt failed",
			slog.String("order", orderID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}

	fallback := fmt.Sprintf("Order %s has been updated.", orderID)
	if err := n.gateway.Send(ctx, chatID, fallback, nil); err != nil {
		n.logger.Error("customer fallback notification failed",
			slog.String("order", orderID),
			slog.String("error", err.Error()))
	}
}

// PaymentReminder sends a due-installment notice to the staff channel
// with the payment action affordances.
func (n *Notifier) PaymentReminder(ctx context.Context, reminder model.Reminder) error {
	buttons := [][]Button{
		{{Text: "Payment made", Data: command.PaymentConfirmed(reminder.ScheduleID, reminder.PaymentNumber)}},
		{{Text: "Contact made", Data: command.ContactMade(reminder.ScheduleID, reminder.PaymentNumber)}},
		{{Text: "Remind tomorrow", Data: command.RemindTomorrow(reminder.ScheduleID, reminder.PaymentNumber)}},
	}
	return n.gateway.Send(ctx, n.staffChatID, renderReminder(reminder), buttons)
}

func renderReminder(r model.Reminder) string {
	var b strings.Builder
	if r.Plan == model.Plan60Day {
		b.WriteString("Payment reminder: 60-day plan\n\n")
	} else {
		b.WriteString("Payment reminder: monthly installment\n\n")
	}
	fmt.Fprintf(&b, "Customer: %s\n", r.Customer.Name)
	fmt.Fprintf(&b, "City: %s\n", r.Customer.City)
	fmt.Fprintf(&b, "Customer code: %s\n", r.Customer.CustomerID)
	fmt.Fprintf(&b, "Order: %s\n\n", r.OrderID)
	if r.Plan == model.Plan90Day {
		fmt.Fprintf(&b, "Installment %d of 3\n", r.PaymentNumber)
		fmt.Fprintf(&b, "Installments outstanding: %d\n", r.RemainingDue)
	}
	fmt.Fprintf(&b, "Amount due: %d\n", r.Amount)
	b.WriteString("Due: today\n\n")
	b.WriteString("Please contact the customer to collect the payment.")
	return b.String()
}

func renderOrderCard(order *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n\n", order.ID)
	fmt.Fprintf(&b, "Customer: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "City: %s\n", order.Customer.City)
	fmt.Fprintf(&b, "Customer code: %s\n\n", order.Customer.CustomerID)

	b.WriteString("Items:\n")
	for i, item := range order.CartItems {
		fmt.Fprintf(&b, "%d. %s (%s) x%d @ %d\n", i+1, item.ProductName, item.Size, item.Quantity, item.Price)
	}

	fmt.Fprintf(&b, "\nSubtotal: %d\n", order.Pricing.Subtotal)
	fmt.Fprintf(&b, "Discount: %d\n", order.Pricing.Discount)
	fmt.Fprintf(&b, "Tax: %d\n", order.Pricing.Tax)
	fmt.Fprintf(&b, "Total: %d\n", order.Pricing.Total)
	fmt.Fprintf(&b, "Payment method: %s\n", order.PaymentMethod)

	if order.InvoiceNumber != nil {
		fmt.Fprintf(&b, "Invoice number: %s\n", *order.InvoiceNumber)
	}
	return b.String()
}

func adminButtons(orderID string) [][]Button {
	return [][]Button{
		{
			{Text: "Confirm order", Data: command.OrderStatus(orderID, model.OrderStatusConfirmed)},
			{Text: "In progress", Data: command.OrderStatus(orderID, model.OrderStatusContacted)},
		},
		{
			{Text: "Shipped", Data: command.OrderStatus(orderID, model.OrderStatusShipped)},
			{Text: "Completed", Data: command.OrderStatus(orderID, model.OrderStatusCompleted)},
		},
		{
			{Text: "Cancel order", Data: command.OrderStatus(orderID, model.OrderStatusCancelled)},
		},
	}
}
