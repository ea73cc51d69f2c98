package catalog

// Entry is a row of the shared catalogs table. All five catalog kinds
// (departments, firms, modifications, worktypes, typesofwork) live in one
// table discriminated by kind. DeletedAt is a unix-millisecond timestamp;
// rows are never physically removed.
type Entry struct {
	ID               string `gorm:"primaryKey;column:id"`
	Kind             string `gorm:"column:kind;index:idx_catalogs_kind;not null"`
	Title            string `gorm:"column:title;not null"`
	TitleSlug        string `gorm:"column:title_slug;not null"`
	NumberInWorkflow string `gorm:"column:number_in_workflow"`
	IsUsedInWorkflow bool   `gorm:"column:is_used_in_workflow;default:false"`
	Version          int64  `gorm:"column:version"`
	DeletedAt        *int64 `gorm:"column:deleted_at"`
}

func (Entry) TableName() string { return "catalogs" }
