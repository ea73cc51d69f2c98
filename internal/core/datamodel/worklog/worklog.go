package worklog

// Record is one append-only audit entry. Date is unix milliseconds.
type Record struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	BD             string `gorm:"column:bd;not null"`
	IDSubject      string `gorm:"column:id_subject;index"`
	IDMainWorkflow string `gorm:"column:id_main_workflow;index"`
	IDWorker       string `gorm:"column:id_worker"`
	FromDepartment string `gorm:"column:from_department"`
	ToDepartment   string `gorm:"column:to_department"`
	Date           int64  `gorm:"column:date;not null"`
	Operation      string `gorm:"column:operation;not null"`
	Description    string `gorm:"column:description"`
}

func (Record) TableName() string { return "worklog" }
