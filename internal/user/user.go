// Package user manages the people moving workflows between departments:
// accounts, credentials, sessions and the projections other parts of the
// system are allowed to see.
package user

import (
	"crypto/rand"
	"encoding/hex"

	userDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/user"
	"github.com/bossrus/workflow-go/internal/readmodel"
)

// cachedOf projects a store row into its cached form. Password hash, login
// slug, email token and session token are dropped here; the session token is
// routed into the detached token map by the caller.
func cachedOf(row *userDatamodel.User) readmodel.User {
	departments := make([]string, len(row.Departments))
	copy(departments, row.Departments)
	return readmodel.User{
		ID:                        row.ID,
		Login:                     row.Login,
		Name:                      row.Name,
		Email:                     row.Email,
		EmailConfirmed:            row.EmailConfirmed,
		CurrentDepartment:         row.CurrentDepartment,
		CurrentWorkflowInWork:     row.CurrentWorkflowInWork,
		Departments:               departments,
		IsSendLetterAboutNewWorks: row.IsSendLetterAboutNewWorks,
		CanStartStopWorks:         row.CanStartStopWorks,
		CanSeeStatistics:          row.CanSeeStatistics,
		IsAdmin:                   row.IsAdmin,
		CanMakeModification:       row.CanMakeModification,
		Version:                   row.Version,
	}
}

// generateToken returns a cryptographically random opaque session token.
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
