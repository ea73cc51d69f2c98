package flash

// Flash is a one-shot message shown to a single user. Change notifications
// for flashes are addressed to To.
type Flash struct {
	ID        string `gorm:"primaryKey;column:id" json:"_id"`
	Type      string `gorm:"column:type;not null" json:"type"`
	To        string `gorm:"column:to_user;index;not null" json:"to"`
	Message   string `gorm:"column:message;not null" json:"message"`
	DeletedAt *int64 `gorm:"column:deleted_at" json:"-"`
}

func (Flash) TableName() string { return "flashes" }
