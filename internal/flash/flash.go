// Package flash delivers one-shot messages to single users. Like invites,
// flash change events are addressed to the recipient's session only.
package flash

import (
	"log/slog"
	"time"

	"github.com/bossrus/workflow-go/internal"
	flashDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/flash"
	"github.com/bossrus/workflow-go/internal/notify"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	GetActiveByRecipient(userID string) ([]*flashDatamodel.Flash, error)
	Create(row *flashDatamodel.Flash) error
	SoftDeleteByRecipient(userID string, deletedAt int64) error
}

type Publisher interface {
	Publish(event notify.Event)
}

type AuditLog interface {
	Append(bd, operation, worker, subject, description string)
}

type Service struct {
	repo     RepositoryAPI
	users    *readmodel.Users
	notifier Publisher
	audit    AuditLog
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, users *readmodel.Users, notifier Publisher, audit AuditLog, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		audit:    audit,
		logger:   logger,
	}
}

func (s *Service) Create(dto CreateDTO, callerID string) (*flashDatamodel.Flash, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, known := s.users.FullProjection(dto.To); !known {
		return nil, internal.NewNotFoundError("recipient not found", internal.ErrCodeUserNotFound)
	}

	row := &flashDatamodel.Flash{
		ID:      uuid.NewString(),
		Type:    dto.Type,
		To:      dto.To,
		Message: dto.Message,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to create flash", err)
	}

	s.notifier.Publish(notify.Event{
		EntityKind: notify.KindFlashes,
		Operation:  notify.OpUpdate,
		ID:         dto.To,
	})
	s.audit.Append("flashes", "create", callerID, row.ID, "")

	return row, nil
}

// ListForRecipient returns the caller's unread flashes keyed by id. An empty
// inbox is reported as not found, which clients treat as "nothing to show".
func (s *Service) ListForRecipient(callerID string) (map[string]*flashDatamodel.Flash, error) {
	rows, err := s.repo.GetActiveByRecipient(callerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to read flashes", err)
	}
	if len(rows) == 0 {
		return nil, internal.NewNotFoundError("no flashes", internal.ErrCodeEntryNotFound)
	}

	result := make(map[string]*flashDatamodel.Flash, len(rows))
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// DeleteForRecipient clears the caller's inbox in one pass.
func (s *Service) DeleteForRecipient(callerID string) error {
	if err := s.repo.SoftDeleteByRecipient(callerID, time.Now().UnixMilli()); err != nil {
		return internal.NewInternalError("failed to delete flashes", err)
	}

	s.notifier.Publish(notify.Event{
		EntityKind: notify.KindFlashes,
		Operation:  notify.OpDelete,
		ID:         callerID,
	})

	return nil
}
