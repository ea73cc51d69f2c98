package catalog_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/catalog"
	catalogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/catalog"
	"github.com/bossrus/workflow-go/internal/notify"
	"github.com/bossrus/workflow-go/internal/readmodel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCatalogService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Service Suite")
}

// MockRepository implements catalog.RepositoryAPI backed by a map.
type MockRepository struct {
	rows       map[string]*catalogDatamodel.Entry
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{rows: make(map[string]*catalogDatamodel.Entry)}
}

func (m *MockRepository) GetAllActive() ([]*catalogDatamodel.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*catalogDatamodel.Entry
	for _, row := range m.rows {
		if row.DeletedAt == nil {
			result = append(result, row)
		}
	}
	return result, nil
}

func (m *MockRepository) GetActiveByID(id string) (*catalogDatamodel.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return nil, nil
	}
	return row, nil
}

func (m *MockRepository) FindByTitleOrSlug(title, titleSlug string) (*catalogDatamodel.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, row := range m.rows {
		if row.Title == title || row.TitleSlug == titleSlug {
			return row, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(entry *catalogDatamodel.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	clone := *entry
	m.rows[entry.ID] = &clone
	return nil
}

func (m *MockRepository) Update(entry *catalogDatamodel.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	clone := *entry
	m.rows[entry.ID] = &clone
	return nil
}

func (m *MockRepository) SoftDelete(id string, deletedAt int64) error {
	if m.shouldFail {
		return m.failError
	}
	if row, ok := m.rows[id]; ok {
		row.DeletedAt = &deletedAt
	}
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddRow(row *catalogDatamodel.Entry) {
	m.rows[row.ID] = row
}

// MockPublisher records published events.
type MockPublisher struct {
	events []notify.Event
}

func (m *MockPublisher) Publish(event notify.Event) {
	m.events = append(m.events, event)
}

// MockAudit records audit entries.
type MockAudit struct {
	entries []string
}

func (m *MockAudit) Append(bd, operation, worker, subject, description string) {
	m.entries = append(m.entries, bd+"/"+operation+"/"+worker+"/"+subject)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

var _ = Describe("Catalog Service", func() {
	var (
		mockRepo  *MockRepository
		publisher *MockPublisher
		audit     *MockAudit
		cache     *readmodel.Catalog
		service   *catalog.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		publisher = &MockPublisher{}
		audit = &MockAudit{}
		cache = readmodel.NewCatalog()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = catalog.NewService(catalog.KindFirms, mockRepo, cache, publisher, audit, logger)
	})

	Describe("LoadFromBase", func() {
		It("should warm the cache with non-deleted rows only", func() {
			gone := int64(1000)
			mockRepo.AddRow(&catalogDatamodel.Entry{ID: "a", Kind: catalog.KindFirms, Title: "Acme", TitleSlug: "acme"})
			mockRepo.AddRow(&catalogDatamodel.Entry{ID: "b", Kind: catalog.KindFirms, Title: "Gone", TitleSlug: "gone", DeletedAt: &gone})

			Expect(service.LoadFromBase()).To(Succeed())
			Expect(cache.Len()).To(Equal(1))
			_, ok := cache.GetByID("b")
			Expect(ok).To(BeFalse())
		})

		It("should fail when the store fails", func() {
			mockRepo.SetShouldFail(true, errors.New("connection refused"))
			Expect(service.LoadFromBase()).NotTo(Succeed())
		})
	})

	Describe("Upsert create", func() {
		It("should store, cache and notify in that order of effects", func() {
			entry, err := service.Upsert(catalog.UpsertDTO{Title: strPtr("Acme Print")}, "actor-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ID).NotTo(BeEmpty())
			Expect(entry.Version).To(Equal(int64(0)))

			stored, _ := mockRepo.GetActiveByID(entry.ID)
			Expect(stored).NotTo(BeNil())
			Expect(stored.TitleSlug).To(Equal("acme-print"))

			cached, ok := cache.GetByID(entry.ID)
			Expect(ok).To(BeTrue())
			Expect(cached.Title).To(Equal("Acme Print"))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EntityKind).To(Equal(catalog.KindFirms))
			Expect(publisher.events[0].Operation).To(Equal(notify.OpUpdate))
			Expect(publisher.events[0].ID).To(Equal(entry.ID))

			Expect(audit.entries).To(HaveLen(1))
			Expect(audit.entries[0]).To(ContainSubstring("firms/create/actor-1"))
		})

		It("should reject a duplicate title and leave the cache unchanged", func() {
			mockRepo.AddRow(&catalogDatamodel.Entry{ID: "a", Title: "Acme", TitleSlug: "acme"})

			_, err := service.Upsert(catalog.UpsertDTO{Title: strPtr("Acme")}, "actor-1")
			Expect(err).To(Equal(internal.ErrEntryExists))
			Expect(cache.Len()).To(Equal(0))
			Expect(publisher.events).To(BeEmpty())
		})

		It("should treat a soft-deleted title as still taken", func() {
			gone := int64(1000)
			mockRepo.AddRow(&catalogDatamodel.Entry{ID: "a", Title: "Acme", TitleSlug: "acme", DeletedAt: &gone})

			_, err := service.Upsert(catalog.UpsertDTO{Title: strPtr("acme")}, "actor-1")
			Expect(err).To(Equal(internal.ErrEntryExists))
		})

		It("should not touch cache or notify when the store write fails", func() {
			mockRepo.SetShouldFail(true, errors.New("insert failed"))

			_, err := service.Upsert(catalog.UpsertDTO{Title: strPtr("Acme")}, "actor-1")
			Expect(err).To(HaveOccurred())
			Expect(cache.Len()).To(Equal(0))
			Expect(publisher.events).To(BeEmpty())
			Expect(audit.entries).To(BeEmpty())
		})

		It("should reject a blank title", func() {
			_, err := service.Upsert(catalog.UpsertDTO{Title: strPtr("   ")}, "actor-1")
			Expect(err).To(HaveOccurred())
		})

		It("should require a title", func() {
			_, err := service.Upsert(catalog.UpsertDTO{}, "actor-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Upsert update", func() {
		BeforeEach(func() {
			mockRepo.AddRow(&catalogDatamodel.Entry{ID: "a", Kind: catalog.KindFirms, Title: "Acme", TitleSlug: "acme", Version: 3})
			Expect(service.LoadFromBase()).To(Succeed())
			publisher.events = nil
		})

		It("should bump the version and write through to the cache", func() {
			entry, err := service.Upsert(catalog.UpsertDTO{ID: "a", NumberInWorkflow: strPtr("2")}, "actor-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Version).To(Equal(int64(4)))

			cached, _ := cache.GetByID("a")
			Expect(cached.NumberInWorkflow).To(Equal("2"))
			Expect(cached.Version).To(Equal(int64(4)))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].Version).To(Equal(int64(4)))
		})

		It("should leave nil fields untouched", func() {
			entry, err := service.Upsert(catalog.UpsertDTO{ID: "a", IsUsedInWorkflow: boolPtr(true)}, "actor-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Title).To(Equal("Acme"))
			Expect(entry.IsUsedInWorkflow).To(BeTrue())
		})

		It("should re-slug on a title change", func() {
			entry, err := service.Upsert(catalog.UpsertDTO{ID: "a", Title: strPtr("Acme Press")}, "actor-1")
			Expect(err).NotTo(HaveOccurred())

			stored, _ := mockRepo.GetActiveByID(entry.ID)
			Expect(stored.TitleSlug).To(Equal("acme-press"))
		})

		It("should reject renaming onto another entry's title", func() {
			mockRepo.AddRow(&catalogDatamodel.Entry{ID: "b", Title: "Taken", TitleSlug: "taken"})

			_, err := service.Upsert(catalog.UpsertDTO{ID: "a", Title: strPtr("Taken")}, "actor-1")
			Expect(err).To(Equal(internal.ErrEntryExists))
		})

		It("should report an unknown id", func() {
			_, err := service.Upsert(catalog.UpsertDTO{ID: "ghost", Title: strPtr("New")}, "actor-1")
			Expect(err).To(Equal(internal.ErrEntryNotFound))
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			mockRepo.AddRow(&catalogDatamodel.Entry{ID: "a", Kind: catalog.KindFirms, Title: "Acme", TitleSlug: "acme", Version: 2})
			Expect(service.LoadFromBase()).To(Succeed())
			publisher.events = nil
		})

		It("should soft-delete the row, drop the cache entry and notify", func() {
			Expect(service.Delete("a", "actor-1")).To(Succeed())

			_, ok := cache.GetByID("a")
			Expect(ok).To(BeFalse())

			Expect(mockRepo.rows["a"].DeletedAt).NotTo(BeNil(), "row must survive as soft-deleted")

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].Operation).To(Equal(notify.OpDelete))
			Expect(publisher.events[0].ID).To(Equal("a"))
			Expect(publisher.events[0].Version).To(Equal(int64(2)))
		})

		It("should report an id absent from the cache", func() {
			Expect(service.Delete("ghost", "actor-1")).To(Equal(internal.ErrEntryNotFound))
		})

		It("should keep the cache entry when the store delete fails", func() {
			mockRepo.SetShouldFail(true, errors.New("delete failed"))

			Expect(service.Delete("a", "actor-1")).To(HaveOccurred())
			_, ok := cache.GetByID("a")
			Expect(ok).To(BeTrue())
			Expect(publisher.events).To(BeEmpty())
		})
	})

	Describe("Reads", func() {
		It("GetByID should serve from the cache without touching the store", func() {
			cache.Upsert(readmodel.CatalogEntry{ID: "x", Title: "Cache only", Version: 1})
			mockRepo.SetShouldFail(true, errors.New("store must not be hit"))

			entry, err := service.GetByID("x")
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Title).To(Equal("Cache only"))
		})

		It("List should serve from the cache", func() {
			cache.Upsert(readmodel.CatalogEntry{ID: "x", Title: "One", Version: 1})
			mockRepo.SetShouldFail(true, errors.New("store must not be hit"))

			Expect(service.List()).To(HaveLen(1))
		})
	})
})
