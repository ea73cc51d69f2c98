// Package worklog is the append-only audit trail. Every mutating operation
// in the system records who did what to which record; a failed audit write
// must never fail the mutation it describes.
package worklog

import (
	"log/slog"
	"time"

	"github.com/bossrus/workflow-go/internal"
	worklogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/worklog"
)

type RepositoryAPI interface {
	Insert(record *worklogDatamodel.Record) error
	GetByWorkflow(workflowID string) ([]*worklogDatamodel.Record, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Append records an audit entry. Errors are logged and swallowed.
func (s *Service) Append(bd, operation, worker, subject, description string) {
	s.AppendForWorkflow(bd, operation, worker, subject, "", description)
}

// AppendForWorkflow records an audit entry tied to a workflow, so it shows up
// in that workflow's trail. Writers that act on a concrete workflow (invites,
// hand-overs) use this; everything else goes through Append.
func (s *Service) AppendForWorkflow(bd, operation, worker, subject, workflowID, description string) {
	record := &worklogDatamodel.Record{
		BD:             bd,
		Operation:      operation,
		IDWorker:       worker,
		IDSubject:      subject,
		IDMainWorkflow: workflowID,
		Description:    description,
		Date:           time.Now().UnixMilli(),
	}
	if err := s.repo.Insert(record); err != nil {
		s.logger.Error("worklog append failed",
			"bd", bd, "operation", operation, "subject", subject, "error", err)
	}
}

func (s *Service) GetByWorkflow(workflowID string) ([]*worklogDatamodel.Record, error) {
	records, err := s.repo.GetByWorkflow(workflowID)
	if err != nil {
		return nil, internal.NewInternalError("failed to read worklog", err)
	}
	return records, nil
}
