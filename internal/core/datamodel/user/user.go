package user

// User is the persisted user row. LoginToken is the live session token; it
// is stored so a restart can rebuild the session map, but it never travels
// on the cached record. DeletedAt is a unix-millisecond timestamp.
type User struct {
	ID                        string   `gorm:"primaryKey;column:id"`
	Login                     string   `gorm:"column:login;uniqueIndex;not null"`
	LoginSlug                 string   `gorm:"column:login_slug;not null"`
	LoginToken                string   `gorm:"column:login_token"`
	Name                      string   `gorm:"column:name;not null"`
	Email                     string   `gorm:"column:email"`
	EmailToken                string   `gorm:"column:email_token"`
	EmailConfirmed            bool     `gorm:"column:email_confirmed;default:false"`
	PasswordHash              string   `gorm:"column:password_hash;not null"`
	CurrentDepartment         string   `gorm:"column:current_department"`
	CurrentWorkflowInWork     string   `gorm:"column:current_workflow_in_work"`
	Departments               []string `gorm:"column:departments;serializer:json"`
	IsSendLetterAboutNewWorks bool     `gorm:"column:is_send_letter_about_new_works;default:false"`
	CanStartStopWorks         bool     `gorm:"column:can_start_stop_works;default:false"`
	CanSeeStatistics          bool     `gorm:"column:can_see_statistics;default:false"`
	IsAdmin                   bool     `gorm:"column:is_admin;default:false"`
	CanMakeModification       bool     `gorm:"column:can_make_modification;default:false"`
	Version                   int64    `gorm:"column:version"`
	DeletedAt                 *int64   `gorm:"column:deleted_at"`
}

func (User) TableName() string { return "users" }
