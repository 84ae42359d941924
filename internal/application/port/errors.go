package port

import "errors"

// ErrStatusConflict is returned by UpdateStatus when the stored status no
// longer matches the expected one
var ErrStatusConflict = errors.New("status changed concurrently")

// ErrUnsupportedDocument is returned by a DocumentReader for file types it
// cannot read
var ErrUnsupportedDocument = errors.New("unsupported document type")
