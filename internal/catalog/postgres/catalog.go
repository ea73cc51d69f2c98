package postgres

import (
	"errors"

	"github.com/bossrus/workflow-go/internal/catalog"
	catalogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/catalog"
	"gorm.io/gorm"
)

// Repository serves one catalog kind from the shared catalogs table.
type Repository struct {
	db   *gorm.DB
	kind string
}

func NewRepository(db *gorm.DB, kind string) catalog.RepositoryAPI {
	return &Repository{db: db, kind: kind}
}

func (r *Repository) GetAllActive() ([]*catalogDatamodel.Entry, error) {
	var rows []*catalogDatamodel.Entry
	err := r.db.
		Where("kind = ? AND deleted_at IS NULL", r.kind).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetActiveByID(id string) (*catalogDatamodel.Entry, error) {
	var row catalogDatamodel.Entry
	err := r.db.
		Where("id = ? AND kind = ? AND deleted_at IS NULL", id, r.kind).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FindByTitleOrSlug deliberately includes soft-deleted rows: titles are
// unique across the full history of a kind.
func (r *Repository) FindByTitleOrSlug(title, titleSlug string) (*catalogDatamodel.Entry, error) {
	var row catalogDatamodel.Entry
	err := r.db.
		Where("kind = ? AND (title = ? OR title_slug = ?)", r.kind, title, titleSlug).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(entry *catalogDatamodel.Entry) error {
	return r.db.Create(entry).Error
}

func (r *Repository) Update(entry *catalogDatamodel.Entry) error {
	return r.db.Save(entry).Error
}

func (r *Repository) SoftDelete(id string, deletedAt int64) error {
	return r.db.Model(&catalogDatamodel.Entry{}).
		Where("id = ? AND kind = ?", id, r.kind).
		Update("deleted_at", deletedAt).Error
}
