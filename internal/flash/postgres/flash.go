package postgres

import (
	flashDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/flash"
	"github.com/bossrus/workflow-go/internal/flash"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) flash.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetActiveByRecipient(userID string) ([]*flashDatamodel.Flash, error) {
	var rows []*flashDatamodel.Flash
	err := r.db.Where("to_user = ? AND deleted_at IS NULL", userID).Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(row *flashDatamodel.Flash) error {
	return r.db.Create(row).Error
}

func (r *Repository) SoftDeleteByRecipient(userID string, deletedAt int64) error {
	return r.db.Model(&flashDatamodel.Flash{}).
		Where("to_user = ? AND deleted_at IS NULL", userID).
		Update("deleted_at", deletedAt).Error
}
