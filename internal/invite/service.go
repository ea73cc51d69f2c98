// Package invite handles workflow hand-over invitations. Invites are the
// first of the two addressed notification kinds: events go to the invited
// user's session only, never to the broadcast roster.
package invite

import (
	"log/slog"
	"time"

	"github.com/bossrus/workflow-go/internal"
	inviteDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/invite"
	"github.com/bossrus/workflow-go/internal/notify"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	GetActiveByID(id string) (*inviteDatamodel.Invite, error)
	GetActiveByRecipient(userID string) ([]*inviteDatamodel.Invite, error)
	Create(row *inviteDatamodel.Invite) error
	SoftDelete(id string, deletedAt int64) error
}

type Publisher interface {
	Publish(event notify.Event)
}

type AuditLog interface {
	AppendForWorkflow(bd, operation, worker, subject, workflowID, description string)
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

// Create issues an invite from the caller to another user. The department is
// taken from the caller's current one, not from the request.
func (s *Service) Create(dto CreateDTO, callerID string) (*inviteDatamodel.Invite, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	caller, ok := s.users.FullProjection(callerID)
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	if _, known := s.users.FullProjection(dto.To); !known {
		return nil, internal.NewNotFoundError("invited user not found", internal.ErrCodeUserNotFound)
	}

	row := &inviteDatamodel.Invite{
		ID:         uuid.NewString(),
		From:       callerID,
		To:         dto.To,
		Workflow:   dto.Workflow,
		Department: caller.CurrentDepartment,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to create invite", err)
	}

	s.notifier.Publish(notify.Event{
		EntityKind: notify.KindInvites,
		Operation:  notify.OpUpdate,
		ID:         dto.To,
	})
	s.audit.AppendForWorkflow("invites", "create", callerID, row.ID, dto.Workflow, "invite to workflow "+dto.Workflow)

	return row, nil
}

// ListForRecipient returns the caller's pending invites keyed by id.
func (s *Service) ListForRecipient(callerID string) (map[string]*inviteDatamodel.Invite, error) {
	rows, err := s.repo.GetActiveByRecipient(callerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to read invites", err)
	}

	result := make(map[string]*inviteDatamodel.Invite, len(rows))
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

func (s *Service) Delete(id, callerID string) error {
	row, err := s.repo.GetActiveByID(id)
	if err != nil {
		return internal.NewInternalError("failed to read invite", err)
	}
	if row == nil {
		return internal.ErrEntryNotFound
	}

	if err := s.repo.SoftDelete(id, time.Now().UnixMilli()); err != nil {
		return internal.NewInternalError("failed to delete invite", err)
	}

	s.notifier.Publish(notify.Event{
		EntityKind: notify.KindInvites,
		Operation:  notify.OpDelete,
		ID:         row.To,
	})
	s.audit.AppendForWorkflow("invites", "delete", callerID, id, row.Workflow, "")

	return nil
}
