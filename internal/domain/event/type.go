package event

// Type identifies the type of domain event
type Type string

const (
	TypeProjectCreated   Type = "project.created"
	TypeStatusChanged    Type = "status.changed"
	TypeProductsDetected Type = "project.products_detected"
	TypeInvoiceCreated   Type = "invoice.created"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeProjectCreated,
		TypeStatusChanged,
		TypeProductsDetected,
		TypeInvoiceCreated:
		return true
	default:
		return false
	}
}
