package invite

// Invite is an invitation to take over a workflow in a department. To and
// From are user ids; change notifications for invites are addressed to To.
type Invite struct {
	ID         string `gorm:"primaryKey;column:id" json:"_id"`
	From       string `gorm:"column:from_user;index" json:"from"`
	To         string `gorm:"column:to_user;index" json:"to"`
	Workflow   string `gorm:"column:workflow" json:"workflow"`
	Department string `gorm:"column:department" json:"department"`
	DeletedAt  *int64 `gorm:"column:deleted_at" json:"-"`
}

func (Invite) TableName() string { return "invites" }
