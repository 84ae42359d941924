package port

import (
	"context"

	"github.com/foundationpro/inspection-billing/internal/domain/entity"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// RoleMessenger delivers a message to everyone holding a workflow role
type RoleMessenger interface {
	SendToRole(ctx context.Context, role workflow.Role, title, content string) error
}

// DocumentReader extracts plain text from an uploaded document
type DocumentReader interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
}

// PageTranscriber turns a rendered page image into text. Used for scanned
// documents that carry no text layer.
type PageTranscriber interface {
	TranscribePage(ctx context.Context, image []byte) (string, error)
}

// InvoiceExporter renders an invoice as a downloadable file
type InvoiceExporter interface {
	Export(ctx context.Context, invoice *entity.Invoice, project *entity.Project) ([]byte, error)
	ContentType() string
	Extension() string
}
