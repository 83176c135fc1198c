package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one in-app inbox item.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_notifications_event_id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient_created,priority:1"`
	Kind        Kind       `gorm:"type:varchar(50);not null"`
	LeaveID     uuid.UUID  `gorm:"type:uuid;not null"`
	Title       string     `gorm:"size:255;not null"`
	Body        string     `gorm:"type:text;not null"`
	ReadAt      *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"index:idx_notifications_recipient_created,priority:2"`
}

func (Notification) TableName() string {
	return "notifications"
}
