// Package notification turns movement log entries consumed from Kafka
// into shipment notice emails.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/BoostersSCM/barcode-inventory/internal/email"
	"github.com/BoostersSCM/barcode-inventory/internal/history"
)

// Sender sends shipment notices. *email.Service implements it; tests
// substitute a recorder.
type Sender interface {
	SendOutboundNotice(to string, notice email.OutboundNotice) error
}

// Handler processes movement log entries for sending notifications
type Handler struct {
	sender    Sender
	recipient string
}

// NewHandler creates a notification handler that mails notices to
// recipient.
func NewHandler(sender Sender, recipient string) *Handler {
	return &Handler{
		sender:    sender,
		recipient: recipient,
	}
}

// HandleEvent processes one movement log entry from Kafka. Inbound
// entries are ignored; outbound entries produce one notice each.
func (h *Handler) HandleEvent(_ context.Context, _, value []byte) error {
	var ev history.Event
	if err := json.Unmarshal(value, &ev); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if ev.Type != history.TypeOutbound {
		return nil
	}

	log.Printf("[Notifier] Processing outbound event %s (product %s, qty %d)", ev.ID, ev.ProductCode, ev.Quantity)

	notice := email.OutboundNotice{
		SerialNumber: ev.SerialNumber,
		ProductCode:  ev.ProductCode,
		ProductName:  ev.ProductName,
		Quantity:     ev.Quantity,
		Handler:      ev.Handler,
		ShippedAt:    ev.Timestamp,
	}
	if err := h.sender.SendOutboundNotice(h.recipient, notice); err != nil {
		log.Printf("[Notifier] Failed to send notice for event %s: %v", ev.ID, err)
		return err
	}

	log.Printf("[Notifier] Shipment notice sent to %s for event %s", h.recipient, ev.ID)
	return nil
}
