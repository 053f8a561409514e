// Package history defines the append-only in/out movement log. Every
// successful inbound registration and outbound shipment appends one
// entry; entries are never updated or deleted.
package history

// Event types recorded in the movement log.
const (
	TypeInbound  = "inbound"
	TypeOutbound = "outbound"
)

// SerialNone marks events that are not tied to a serial-tracked record,
// such as product-level outbound scans.
const SerialNone int64 = 0

// Event is one movement log entry.
type Event struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	SerialNumber int64  `json:"serial_number"`
	ProductCode  string `json:"product_code"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	Handler      string `json:"handler"`
}
