package entity

// Notification delivery status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)

// Deliverable kind constants
const (
	DeliverableKindInspectionReport = "INSPECTION_REPORT"
	DeliverableKindPhotoLog         = "PHOTO_LOG"
	DeliverableKindCertification    = "CERTIFICATION"
	DeliverableKindOther            = "OTHER"
)

var validDeliverableKinds = map[string]bool{
	DeliverableKindInspectionReport: true,
	DeliverableKindPhotoLog:         true,
	DeliverableKindCertification:    true,
	DeliverableKindOther:            true,
}

// IsValidDeliverableKind reports whether kind is a known deliverable kind
func IsValidDeliverableKind(kind string) bool {
	return validDeliverableKinds[kind]
}
