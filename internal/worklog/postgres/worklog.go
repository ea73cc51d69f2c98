package postgres

import (
	worklogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/worklog"
	"github.com/bossrus/workflow-go/internal/worklog"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) worklog.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Insert(record *worklogDatamodel.Record) error {
	return r.db.Create(record).Error
}

func (r *Repository) GetByWorkflow(workflowID string) ([]*worklogDatamodel.Record, error) {
	var records []*worklogDatamodel.Record
	err := r.db.
		Where("id_main_workflow = ?", workflowID).
		Order("date ASC").
		Find(&records).Error
	return records, err
}
