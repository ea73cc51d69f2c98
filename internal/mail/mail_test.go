package mail

import (
	"log/slog"
	"os"
	"testing"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/readmodel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMail(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mail Suite")
}

var _ = Describe("Sender", func() {
	var (
		users  *readmodel.Users
		firms  *readmodel.Catalog
		mods   *readmodel.Catalog
		sender *Sender
	)

	BeforeEach(func() {
		users = readmodel.NewUsers()
		firms = readmodel.NewCatalog()
		mods = readmodel.NewCatalog()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		sender = NewSender(internal.MailConfig{Enabled: false}, users, firms, mods, logger)
	})

	Describe("titleOrID", func() {
		It("should resolve a cached title", func() {
			firms.Upsert(readmodel.CatalogEntry{ID: "f1", Title: "Acme", Version: 1})
			Expect(sender.titleOrID(firms, "f1")).To(Equal("Acme"))
		})

		It("should fall back to the raw id", func() {
			Expect(sender.titleOrID(firms, "ghost")).To(Equal("ghost"))
		})
	})

	Describe("SendNewWorkNotification", func() {
		It("should be a no-op without recipients", func() {
			Expect(func() {
				sender.SendNewWorkNotification("dep-1", "f1", "m1", "Booklet")
			}).NotTo(Panic())
		})

		It("should not panic with disabled mail and opted-in recipients", func() {
			users.ReplaceAll([]readmodel.User{{
				ID: "u1", Name: "Anna", Email: "anna@example.com",
				IsSendLetterAboutNewWorks: true, Departments: []string{"dep-1"}, Version: 1,
			}}, nil)

			Expect(func() {
				sender.SendNewWorkNotification("dep-1", "f1", "m1", "Booklet")
			}).NotTo(Panic())
		})
	})

	Describe("SendEmailConfirmation", func() {
		It("should be safe when mail is disabled", func() {
			Expect(func() {
				sender.SendEmailConfirmation("anna@example.com", "Anna", "http://localhost/confirm")
			}).NotTo(Panic())
		})
	})
})
