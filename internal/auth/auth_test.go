package auth_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/auth"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuthGate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Gate Suite")
}

var _ = Describe("Gate", func() {
	var (
		users *readmodel.Users
		gate  *auth.Gate

		adminID, plainID, modID string
	)

	BeforeEach(func() {
		users = readmodel.NewUsers()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		gate = auth.NewGate(users, logger)

		adminID = uuid.NewString()
		plainID = uuid.NewString()
		modID = uuid.NewString()

		admin := readmodel.User{ID: adminID, Login: "boss", Name: "Boss", IsAdmin: true, Version: 1}
		plain := readmodel.User{ID: plainID, Login: "anna", Name: "Anna", Version: 1}
		mod := readmodel.User{ID: modID, Login: "mo", Name: "Mo", CanMakeModification: true, Version: 1}

		users.ReplaceAll([]readmodel.User{admin, plain, mod}, map[string]string{
			adminID: "tok-a",
			plainID: "tok-p",
			modID:   "tok-m",
		})
	})

	Describe("Allow", func() {
		It("should pass anyone through an open route", func() {
			Expect(gate.Allow(auth.RoleNone, "", "")).To(Succeed())
		})

		It("should reject a malformed subject id before touching the cache", func() {
			err := gate.Allow(auth.RoleUser, "not-a-uuid", "tok-p")
			Expect(err).To(Equal(internal.ErrSessionInvalid))
		})

		It("should reject a dead session", func() {
			err := gate.Allow(auth.RoleUser, plainID, "wrong")
			Expect(err).To(Equal(internal.ErrSessionInvalid))
		})

		It("should accept any live session at the user level", func() {
			Expect(gate.Allow(auth.RoleUser, plainID, "tok-p")).To(Succeed())
		})

		It("should distinguish missing flag from dead session", func() {
			err := gate.Allow(auth.RoleAdmin, plainID, "tok-p")
			Expect(err).To(Equal(internal.ErrRoleDenied))
		})

		It("should accept the flag holder", func() {
			Expect(gate.Allow(auth.RoleCanModify, modID, "tok-m")).To(Succeed())
		})

		It("should let an admin through any role", func() {
			Expect(gate.Allow(auth.RoleAdmin, adminID, "tok-a")).To(Succeed())
			Expect(gate.Allow(auth.RoleCanModify, adminID, "tok-a")).To(Succeed())
			Expect(gate.Allow(auth.RoleCanSeeStatistics, adminID, "tok-a")).To(Succeed())
		})
	})

	Describe("Require middleware", func() {
		var next http.Handler

		BeforeEach(func() {
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Subject", internal.UserIDFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})
		})

		doRequest := func(role auth.Role, id, token string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if id != "" {
				req.Header.Set(auth.HeaderLogin, id)
			}
			if token != "" {
				req.Header.Set(auth.HeaderToken, token)
			}
			rec := httptest.NewRecorder()
			gate.Require(role)(next).ServeHTTP(rec, req)
			return rec
		}

		It("should respond 401 without headers", func() {
			rec := doRequest(auth.RoleUser, "", "")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should respond 401 for a dead session", func() {
			rec := doRequest(auth.RoleUser, plainID, "wrong")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should respond 403 for a live session without the flag", func() {
			rec := doRequest(auth.RoleAdmin, plainID, "tok-p")
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should pass the subject id to the handler on success", func() {
			rec := doRequest(auth.RoleUser, plainID, "tok-p")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("X-Subject")).To(Equal(plainID))
		})
	})
})
