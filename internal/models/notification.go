package models

// Notification types emitted by the inventory alert engine. Stored as plain
// strings so new alert types can be added without a migration.
const (
	NotificationTypeDrugExpiration = "DrugExpiration"
	NotificationTypeLowStock       = "LowStock"
)

// Notification is an immutable alert for a user. Only the read flag changes
// after creation, and only from unread to read.
type Notification struct {
	BaseModel

	Title         string `gorm:"not null" json:"title"`
	Message       string `gorm:"type:text" json:"message"`
	Type          string `gorm:"type:varchar(64);not null;index" json:"type"`
	RelatedItemID string `gorm:"column:related_item_id;index" json:"related_item_id"`
	IsRead        bool   `gorm:"column:is_read;default:false;index" json:"is_read"`

	UserUID string `gorm:"column:user_uid;index;not null" json:"user_uid"`
}
