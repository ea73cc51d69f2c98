package postgres

import (
	"errors"

	userDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/user"
	"github.com/bossrus/workflow-go/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) user.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetAllActive() ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Where("deleted_at IS NULL").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetActiveByID(id string) (*userDatamodel.User, error) {
	return r.first("id = ? AND deleted_at IS NULL", id)
}

func (r *Repository) GetActiveByLogin(login string) (*userDatamodel.User, error) {
	return r.first("login = ? AND deleted_at IS NULL", login)
}

// FindByLoginOrSlug includes soft-deleted rows: a login that ever existed
// stays taken.
func (r *Repository) FindByLoginOrSlug(login, loginSlug string) (*userDatamodel.User, error) {
	return r.first("login = ? OR login_slug = ?", login, loginSlug)
}

func (r *Repository) GetByIDAndEmailToken(id, emailToken string) (*userDatamodel.User, error) {
	if emailToken == "" {
		return nil, nil
	}
	return r.first("id = ? AND email_token = ?", id, emailToken)
}

func (r *Repository) Create(row *userDatamodel.User) error {
	return r.db.Create(row).Error
}

func (r *Repository) Update(row *userDatamodel.User) error {
	return r.db.Save(row).Error
}

func (r *Repository) SetLoginToken(id, token string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("login_token", token).Error
}

// SetEmail stores a new unconfirmed address together with its confirmation
// token.
func (r *Repository) SetEmail(id, email, emailToken string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email":           email,
			"email_token":     emailToken,
			"email_confirmed": false,
		}).Error
}

func (r *Repository) SoftDelete(id string, deletedAt int64) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("deleted_at", deletedAt).Error
}

func (r *Repository) first(query string, args ...interface{}) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
