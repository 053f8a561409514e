package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BoostersSCM/barcode-inventory/internal/email"
	"github.com/BoostersSCM/barcode-inventory/internal/history"
)

// fakeSender records sent notices and can inject a failure.
type fakeSender struct {
	Sent    []email.OutboundNotice
	To      []string
	SendErr error
}

func (s *fakeSender) SendOutboundNotice(to string, notice email.OutboundNotice) error {
	if s.SendErr != nil {
		return s.SendErr
	}
	s.To = append(s.To, to)
	s.Sent = append(s.Sent, notice)
	return nil
}

func marshalEvent(t *testing.T, ev history.Event) []byte {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return data
}

func TestHandler_OutboundEventSendsNotice(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender, "warehouse@example.com")

	ev := history.Event{
		ID:           "ev-1",
		Timestamp:    "2026-08-30 14:30:00",
		Type:         history.TypeOutbound,
		SerialNumber: 42,
		ProductCode:  "P-100",
		ProductName:  "Collagen Powder",
		Quantity:     1,
		Handler:      "Kim",
	}

	err := handler.HandleEvent(context.Background(), nil, marshalEvent(t, ev))

	require.NoError(t, err)
	require.Len(t, sender.Sent, 1)
	assert.Equal(t, "warehouse@example.com", sender.To[0])
	notice := sender.Sent[0]
	assert.Equal(t, int64(42), notice.SerialNumber)
	assert.Equal(t, "Collagen Powder", notice.ProductName)
	assert.Equal(t, "Kim", notice.Handler)
	assert.Equal(t, "2026-08-30 14:30:00", notice.ShippedAt)
}

func TestHandler_InboundEventIgnored(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender, "warehouse@example.com")

	ev := history.Event{ID: "ev-2", Type: history.TypeInbound, Quantity: 1}

	err := handler.HandleEvent(context.Background(), nil, marshalEvent(t, ev))

	require.NoError(t, err)
	assert.Empty(t, sender.Sent)
}

func TestHandler_MalformedPayload(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender, "warehouse@example.com")

	err := handler.HandleEvent(context.Background(), nil, []byte("{broken"))

	assert.Error(t, err)
	assert.Empty(t, sender.Sent)
}

func TestHandler_SendFailurePropagates(t *testing.T) {
	sender := &fakeSender{SendErr: errors.New("smtp unreachable")}
	handler := NewHandler(sender, "warehouse@example.com")

	ev := history.Event{ID: "ev-3", Type: history.TypeOutbound, Quantity: 1}

	err := handler.HandleEvent(context.Background(), nil, marshalEvent(t, ev))

	assert.Error(t, err)
}
