// internal/models/notification.go
package models

import "time"

// NotificationLog is one row of the dedup ledger. The tuple
// (UserID, Type, SubjectType, SubjectID) is unique across all time; rows are
// inserted once per successful delivery and never updated or deleted.
type NotificationLog struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Type        string    `json:"type"`
	SubjectType string    `json:"subjectType"`
	SubjectID   int64     `json:"subjectId"`
	SentAt      time.Time `json:"sentAt"`
}
