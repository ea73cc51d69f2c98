package readmodel_test

import (
	"github.com/bossrus/workflow-go/internal/readmodel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func cachedUser(id, name string) readmodel.User {
	return readmodel.User{
		ID:          id,
		Login:       name,
		Name:        name,
		Departments: []string{"dep-1"},
		Version:     1,
	}
}

var _ = Describe("Users Cache", func() {
	var users *readmodel.Users

	BeforeEach(func() {
		users = readmodel.NewUsers()
	})

	Describe("ReplaceAll", func() {
		It("should rebuild records and tokens together", func() {
			users.ReplaceAll(
				[]readmodel.User{cachedUser("u1", "anna"), cachedUser("u2", "boris")},
				map[string]string{"u1": "tok-1", "u2": ""},
			)

			Expect(users.Len()).To(Equal(2))
			Expect(users.VerifySession("u1", "tok-1")).To(BeTrue())
			Expect(users.VerifySession("u2", "")).To(BeFalse())
		})
	})

	Describe("VerifySession", func() {
		BeforeEach(func() {
			users.ReplaceAll([]readmodel.User{cachedUser("u1", "anna")}, nil)
			users.SetToken("u1", "tok-1")
		})

		It("should accept a matching live token", func() {
			Expect(users.VerifySession("u1", "tok-1")).To(BeTrue())
		})

		It("should reject an unknown user", func() {
			Expect(users.VerifySession("ghost", "tok-1")).To(BeFalse())
		})

		It("should reject a wrong token", func() {
			Expect(users.VerifySession("u1", "tok-2")).To(BeFalse())
		})

		It("should reject an empty presented token", func() {
			Expect(users.VerifySession("u1", "")).To(BeFalse())
		})

		It("should reject after the token is cleared", func() {
			users.ClearToken("u1")
			Expect(users.VerifySession("u1", "tok-1")).To(BeFalse())
		})

		It("should reject the old token after a second login", func() {
			users.SetToken("u1", "tok-2")
			Expect(users.VerifySession("u1", "tok-1")).To(BeFalse())
			Expect(users.VerifySession("u1", "tok-2")).To(BeTrue())
		})

		It("should reject a user removed from the cache", func() {
			users.Remove("u1")
			Expect(users.VerifySession("u1", "tok-1")).To(BeFalse())
		})
	})

	Describe("VerifyRole", func() {
		BeforeEach(func() {
			admin := cachedUser("adm", "admin")
			admin.IsAdmin = true
			plain := cachedUser("usr", "plain")
			stats := cachedUser("sta", "stats")
			stats.CanSeeStatistics = true

			users.ReplaceAll([]readmodel.User{admin, plain, stats}, map[string]string{
				"adm": "tok-a",
				"usr": "tok-u",
				"sta": "tok-s",
			})
		})

		It("should let the flag holder through", func() {
			Expect(users.VerifyRole("sta", "tok-s", readmodel.CanSeeStatistics)).To(BeTrue())
		})

		It("should let an admin through any predicate", func() {
			Expect(users.VerifyRole("adm", "tok-a", readmodel.CanSeeStatistics)).To(BeTrue())
			Expect(users.VerifyRole("adm", "tok-a", readmodel.CanMakeModification)).To(BeTrue())
		})

		It("should deny a plain user", func() {
			Expect(users.VerifyRole("usr", "tok-u", readmodel.CanSeeStatistics)).To(BeFalse())
		})

		It("should deny a dead session regardless of flags", func() {
			Expect(users.VerifyRole("sta", "wrong", readmodel.CanSeeStatistics)).To(BeFalse())
		})
	})

	Describe("Projections", func() {
		BeforeEach(func() {
			u := cachedUser("u1", "anna")
			u.Email = "anna@example.com"
			u.IsAdmin = true
			users.ReplaceAll([]readmodel.User{u}, map[string]string{"u1": "tok-1"})
		})

		It("short form should carry only id, name, departments and version", func() {
			short, ok := users.ShortProjection("u1")
			Expect(ok).To(BeTrue())
			Expect(short.ID).To(Equal("u1"))
			Expect(short.Name).To(Equal("anna"))
			Expect(short.Departments).To(Equal([]string{"dep-1"}))
			Expect(short.Version).To(Equal(int64(1)))
		})

		It("short form should copy the departments slice", func() {
			short, _ := users.ShortProjection("u1")
			short.Departments[0] = "mutated"

			full, _ := users.FullProjection("u1")
			Expect(full.Departments[0]).To(Equal("dep-1"))
		})

		It("full form should carry the flags and email", func() {
			full, ok := users.FullProjection("u1")
			Expect(ok).To(BeTrue())
			Expect(full.Email).To(Equal("anna@example.com"))
			Expect(full.IsAdmin).To(BeTrue())
		})

		It("AllShort should list everyone in short form", func() {
			Expect(users.AllShort()).To(HaveLen(1))
		})
	})

	Describe("EmailRecipientsForDepartment", func() {
		It("should pick only opted-in members with an address", func() {
			optedIn := cachedUser("u1", "anna")
			optedIn.Email = "anna@example.com"
			optedIn.IsSendLetterAboutNewWorks = true

			noAddress := cachedUser("u2", "boris")
			noAddress.IsSendLetterAboutNewWorks = true

			optedOut := cachedUser("u3", "vera")
			optedOut.Email = "vera@example.com"

			elsewhere := cachedUser("u4", "gleb")
			elsewhere.Email = "gleb@example.com"
			elsewhere.IsSendLetterAboutNewWorks = true
			elsewhere.Departments = []string{"dep-2"}

			users.ReplaceAll([]readmodel.User{optedIn, noAddress, optedOut, elsewhere}, nil)

			recipients := users.EmailRecipientsForDepartment("dep-1")
			Expect(recipients).To(HaveLen(1))
			Expect(recipients[0].Email).To(Equal("anna@example.com"))
		})

		It("should return nil when nobody is opted in", func() {
			users.ReplaceAll([]readmodel.User{cachedUser("u1", "anna")}, nil)
			Expect(users.EmailRecipientsForDepartment("dep-1")).To(BeNil())
		})
	})
})
