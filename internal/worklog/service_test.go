package worklog_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	worklogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/worklog"
	"github.com/bossrus/workflow-go/internal/worklog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWorklogService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Worklog Service Suite")
}

type MockRepository struct {
	records    []*worklogDatamodel.Record
	shouldFail bool
}

func (m *MockRepository) Insert(record *worklogDatamodel.Record) error {
	if m.shouldFail {
		return errors.New("insert failed")
	}
	clone := *record
	m.records = append(m.records, &clone)
	return nil
}

func (m *MockRepository) GetByWorkflow(workflowID string) ([]*worklogDatamodel.Record, error) {
	if m.shouldFail {
		return nil, errors.New("query failed")
	}
	var result []*worklogDatamodel.Record
	for _, record := range m.records {
		if record.IDMainWorkflow == workflowID {
			result = append(result, record)
		}
	}
	return result, nil
}

var _ = Describe("Worklog Service", func() {
	var (
		mockRepo *MockRepository
		service  *worklog.Service
	)

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = worklog.NewService(mockRepo, logger)
	})

	Describe("Append", func() {
		It("should record the entry with a timestamp and no workflow", func() {
			service.Append("firms", "create", "worker-1", "firm-1", "created")

			Expect(mockRepo.records).To(HaveLen(1))
			record := mockRepo.records[0]
			Expect(record.BD).To(Equal("firms"))
			Expect(record.IDWorker).To(Equal("worker-1"))
			Expect(record.IDMainWorkflow).To(BeEmpty())
			Expect(record.Date).To(BeNumerically(">", 0))
		})

		It("should swallow store failures", func() {
			mockRepo.shouldFail = true
			Expect(func() {
				service.Append("firms", "create", "worker-1", "firm-1", "")
			}).NotTo(Panic())
		})
	})

	Describe("AppendForWorkflow", func() {
		It("should file the entry under the workflow", func() {
			service.AppendForWorkflow("invites", "create", "worker-1", "invite-1", "wf-1", "")

			Expect(mockRepo.records).To(HaveLen(1))
			Expect(mockRepo.records[0].IDMainWorkflow).To(Equal("wf-1"))
		})
	})

	Describe("GetByWorkflow", func() {
		It("should return only the workflow's trail", func() {
			service.AppendForWorkflow("invites", "create", "worker-1", "invite-1", "wf-1", "")
			service.AppendForWorkflow("invites", "create", "worker-1", "invite-2", "wf-2", "")
			service.Append("firms", "create", "worker-1", "firm-1", "")

			records, err := service.GetByWorkflow("wf-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].IDSubject).To(Equal("invite-1"))
		})

		It("should wrap store failures", func() {
			mockRepo.shouldFail = true
			_, err := service.GetByWorkflow("wf-1")
			Expect(err).To(HaveOccurred())
		})
	})
})
