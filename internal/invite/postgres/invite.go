package postgres

import (
	"errors"

	inviteDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/invite"
	"github.com/bossrus/workflow-go/internal/invite"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invite.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetActiveByID(id string) (*inviteDatamodel.Invite, error) {
	var row inviteDatamodel.Invite
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetActiveByRecipient(userID string) ([]*inviteDatamodel.Invite, error) {
	var rows []*inviteDatamodel.Invite
	err := r.db.Where("to_user = ? AND deleted_at IS NULL", userID).Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(row *inviteDatamodel.Invite) error {
	return r.db.Create(row).Error
}

func (r *Repository) SoftDelete(id string, deletedAt int64) error {
	return r.db.Model(&inviteDatamodel.Invite{}).
		Where("id = ?", id).
		Update("deleted_at", deletedAt).Error
}
