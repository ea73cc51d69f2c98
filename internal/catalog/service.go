package catalog

import (
	"log/slog"
	"time"

	"github.com/bossrus/workflow-go/internal"
	catalogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/catalog"
	"github.com/bossrus/workflow-go/internal/notify"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/bossrus/workflow-go/internal/slug"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	GetAllActive() ([]*catalogDatamodel.Entry, error)
	GetActiveByID(id string) (*catalogDatamodel.Entry, error)
	FindByTitleOrSlug(title, titleSlug string) (*catalogDatamodel.Entry, error)
	Create(entry *catalogDatamodel.Entry) error
	Update(entry *catalogDatamodel.Entry) error
	SoftDelete(id string, deletedAt int64) error
}

// Publisher is satisfied by notify.Notifier.
type Publisher interface {
	Publish(event notify.Event)
}

// AuditLog is satisfied by the worklog service. Append never fails the
// caller.
type AuditLog interface {
	Append(bd, operation, worker, subject, description string)
}

type Service struct {
	kind     string
	repo     RepositoryAPI
	cache    *readmodel.Catalog
	notifier Publisher
	audit    AuditLog
	logger   *slog.Logger
}

func NewService(kind string, repo RepositoryAPI, cache *readmodel.Catalog, notifier Publisher, audit AuditLog, logger *slog.Logger) *Service {
	return &Service{
		kind:     kind,
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		audit:    audit,
		logger:   logger,
	}
}

func (s *Service) Kind() string { return s.kind }

// LoadFromBase rebuilds the cache from the non-deleted store rows. Called
// once at startup, before the HTTP listener accepts traffic.
func (s *Service) LoadFromBase() error {
	rows, err := s.repo.GetAllActive()
	if err != nil {
		return internal.NewInternalError("failed to load "+s.kind+" from store", err)
	}
	entries := make([]readmodel.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryOf(row))
	}
	s.cache.ReplaceAll(entries)
	s.logger.Info("catalog cache loaded", "kind", s.kind, "count", len(entries))
	return nil
}

// List serves entirely from the cache, keyed by id.
func (s *Service) List() map[string]readmodel.CatalogEntry {
	return s.cache.All()
}

func (s *Service) GetByID(id string) (readmodel.CatalogEntry, error) {
	entry, ok := s.cache.GetByID(id)
	if !ok {
		return readmodel.CatalogEntry{}, internal.ErrEntryNotFound
	}
	return entry, nil
}

// Upsert creates when the DTO has no id, otherwise applies a partial update.
// The duplicate-title check runs against the store, not the cache, so two
// concurrent creates cannot both pass on a stale cache.
func (s *Service) Upsert(dto UpsertDTO, actorID string) (readmodel.CatalogEntry, error) {
	if err := dto.Validate(); err != nil {
		return readmodel.CatalogEntry{}, err
	}
	if dto.ID == "" {
		return s.create(dto, actorID)
	}
	return s.update(dto, actorID)
}

func (s *Service) create(dto UpsertDTO, actorID string) (readmodel.CatalogEntry, error) {
	if err := s.checkExist(*dto.Title); err != nil {
		return readmodel.CatalogEntry{}, err
	}

	row := &catalogDatamodel.Entry{
		ID:        uuid.NewString(),
		Kind:      s.kind,
		Title:     *dto.Title,
		TitleSlug: slug.Make(*dto.Title),
		Version:   0,
	}
	if dto.NumberInWorkflow != nil {
		row.NumberInWorkflow = *dto.NumberInWorkflow
	}
	if dto.IsUsedInWorkflow != nil {
		row.IsUsedInWorkflow = *dto.IsUsedInWorkflow
	}

	if err := s.repo.Create(row); err != nil {
		return readmodel.CatalogEntry{}, internal.NewInternalError("failed to create "+s.kind+" entry", err)
	}

	entry := entryOf(row)
	s.cache.Upsert(entry)
	s.notifyAndLog("create", entry, actorID)
	return entry, nil
}

func (s *Service) update(dto UpsertDTO, actorID string) (readmodel.CatalogEntry, error) {
	row, err := s.repo.GetActiveByID(dto.ID)
	if err != nil {
		return readmodel.CatalogEntry{}, internal.NewInternalError("failed to read "+s.kind+" entry", err)
	}
	if row == nil {
		return readmodel.CatalogEntry{}, internal.ErrEntryNotFound
	}

	if dto.Title != nil && *dto.Title != row.Title {
		if err := s.checkExist(*dto.Title); err != nil {
			return readmodel.CatalogEntry{}, err
		}
		row.Title = *dto.Title
		row.TitleSlug = slug.Make(*dto.Title)
	}
	if dto.NumberInWorkflow != nil {
		row.NumberInWorkflow = *dto.NumberInWorkflow
	}
	if dto.IsUsedInWorkflow != nil {
		row.IsUsedInWorkflow = *dto.IsUsedInWorkflow
	}
	row.Version++

	if err := s.repo.Update(row); err != nil {
		return readmodel.CatalogEntry{}, internal.NewInternalError("failed to update "+s.kind+" entry", err)
	}

	entry := entryOf(row)
	s.cache.Upsert(entry)
	s.notifyAndLog("edit", entry, actorID)
	return entry, nil
}

// Delete soft-deletes the entry: the row keeps its data and timestamp, the
// cache entry disappears.
func (s *Service) Delete(id, actorID string) error {
	entry, ok := s.cache.GetByID(id)
	if !ok {
		return internal.ErrEntryNotFound
	}

	if err := s.repo.SoftDelete(id, time.Now().UnixMilli()); err != nil {
		return internal.NewInternalError("failed to delete "+s.kind+" entry", err)
	}

	s.cache.Remove(id)
	s.notifier.Publish(notify.Event{
		EntityKind: s.kind,
		Operation:  notify.OpDelete,
		ID:         entry.ID,
		Version:    entry.Version,
	})
	s.audit.Append(s.kind, "delete", actorID, entry.ID, "")
	return nil
}

// checkExist consults the store including soft-deleted rows: a title that
// ever existed stays taken.
func (s *Service) checkExist(title string) error {
	row, err := s.repo.FindByTitleOrSlug(title, slug.Make(title))
	if err != nil {
		return internal.NewInternalError("failed to check "+s.kind+" title", err)
	}
	if row != nil {
		return internal.ErrEntryExists
	}
	return nil
}

func (s *Service) notifyAndLog(operation string, entry readmodel.CatalogEntry, actorID string) {
	s.notifier.Publish(notify.Event{
		EntityKind: s.kind,
		Operation:  notify.OpUpdate,
		ID:         entry.ID,
		Version:    entry.Version,
	})
	s.audit.Append(s.kind, operation, actorID, entry.ID, "")
}
