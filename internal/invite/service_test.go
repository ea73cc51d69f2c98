package invite_test

import (
	"log/slog"
	"os"
	"testing"

	inviteDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/invite"
	"github.com/bossrus/workflow-go/internal/invite"
	"github.com/bossrus/workflow-go/internal/notify"
	"github.com/bossrus/workflow-go/internal/readmodel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInviteService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Invite Service Suite")
}

type MockRepository struct {
	rows map[string]*inviteDatamodel.Invite
}

func NewMockRepository() *MockRepository {
	return &MockRepository{rows: make(map[string]*inviteDatamodel.Invite)}
}

func (m *MockRepository) GetActiveByID(id string) (*inviteDatamodel.Invite, error) {
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return nil, nil
	}
	return row, nil
}

func (m *MockRepository) GetActiveByRecipient(userID string) ([]*inviteDatamodel.Invite, error) {
	var result []*inviteDatamodel.Invite
	for _, row := range m.rows {
		if row.To == userID && row.DeletedAt == nil {
			result = append(result, row)
		}
	}
	return result, nil
}

func (m *MockRepository) Create(row *inviteDatamodel.Invite) error {
	clone := *row
	m.rows[row.ID] = &clone
	return nil
}

func (m *MockRepository) SoftDelete(id string, deletedAt int64) error {
	if row, ok := m.rows[id]; ok {
		row.DeletedAt = &deletedAt
	}
	return nil
}

type MockPublisher struct {
	events []notify.Event
}

func (m *MockPublisher) Publish(event notify.Event) {
	m.events = append(m.events, event)
}

type MockAudit struct {
	entries   []string
	workflows []string
}

func (m *MockAudit) AppendForWorkflow(bd, operation, worker, subject, workflowID, description string) {
	m.entries = append(m.entries, bd+"/"+operation)
	m.workflows = append(m.workflows, workflowID)
}

var _ = Describe("Invite Service", func() {
	var (
		mockRepo  *MockRepository
		publisher *MockPublisher
		audit     *MockAudit
		users     *readmodel.Users
		service   *invite.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		publisher = &MockPublisher{}
		audit = &MockAudit{}
		users = readmodel.NewUsers()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = invite.NewService(mockRepo, users, publisher, audit, logger)

		users.ReplaceAll([]readmodel.User{
			{ID: "sender", Name: "Anna", CurrentDepartment: "dep-print", Departments: []string{"dep-print"}, Version: 1},
			{ID: "receiver", Name: "Boris", Departments: []string{"dep-cut"}, Version: 1},
		}, nil)
	})

	Describe("Create", func() {
		It("should stamp the sender's current department and address the event to the recipient", func() {
			row, err := service.Create(invite.CreateDTO{To: "receiver", Workflow: "wf-1"}, "sender")
			Expect(err).NotTo(HaveOccurred())
			Expect(row.From).To(Equal("sender"))
			Expect(row.Department).To(Equal("dep-print"))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EntityKind).To(Equal(notify.KindInvites))
			Expect(publisher.events[0].ID).To(Equal("receiver"), "addressed events carry the recipient id")
		})

		It("should file the audit entry under the invite's workflow", func() {
			_, err := service.Create(invite.CreateDTO{To: "receiver", Workflow: "wf-1"}, "sender")
			Expect(err).NotTo(HaveOccurred())

			Expect(audit.entries).To(ConsistOf("invites/create"))
			Expect(audit.workflows).To(ConsistOf("wf-1"))
		})

		It("should reject an unknown recipient", func() {
			_, err := service.Create(invite.CreateDTO{To: "ghost", Workflow: "wf-1"}, "sender")
			Expect(err).To(HaveOccurred())
			Expect(publisher.events).To(BeEmpty())
		})

		It("should reject an unknown sender", func() {
			_, err := service.Create(invite.CreateDTO{To: "receiver", Workflow: "wf-1"}, "ghost")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListForRecipient", func() {
		It("should key the result by invite id", func() {
			first, _ := service.Create(invite.CreateDTO{To: "receiver", Workflow: "wf-1"}, "sender")
			second, _ := service.Create(invite.CreateDTO{To: "receiver", Workflow: "wf-2"}, "sender")

			result, err := service.ListForRecipient("receiver")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
			Expect(result).To(HaveKey(first.ID))
			Expect(result).To(HaveKey(second.ID))
		})

		It("should not show another user's invites", func() {
			_, err := service.Create(invite.CreateDTO{To: "receiver", Workflow: "wf-1"}, "sender")
			Expect(err).NotTo(HaveOccurred())

			result, err := service.ListForRecipient("sender")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("should soft-delete and notify the recipient", func() {
			row, _ := service.Create(invite.CreateDTO{To: "receiver", Workflow: "wf-1"}, "sender")
			publisher.events = nil

			Expect(service.Delete(row.ID, "receiver")).To(Succeed())

			result, _ := service.ListForRecipient("receiver")
			Expect(result).To(BeEmpty())

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].Operation).To(Equal(notify.OpDelete))
			Expect(publisher.events[0].ID).To(Equal("receiver"))
			Expect(audit.workflows).To(HaveExactElements("wf-1", "wf-1"), "the delete entry keeps the invite's workflow")
		})

		It("should report an unknown invite", func() {
			Expect(service.Delete("ghost", "receiver")).To(HaveOccurred())
		})
	})
})
