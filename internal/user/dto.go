package user

import (
	"strings"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/readmodel"
)

type CreateDTO struct {
	Login                     string   `json:"login"`
	Name                      string   `json:"name"`
	Password                  string   `json:"password"`
	Email                     string   `json:"email,omitempty"`
	Departments               []string `json:"departments"`
	CurrentDepartment         string   `json:"currentDepartment,omitempty"`
	IsSendLetterAboutNewWorks bool     `json:"isSendLetterAboutNewWorks"`
	CanStartStopWorks         bool     `json:"canStartStopWorks"`
	CanSeeStatistics          bool     `json:"canSeeStatistics"`
	IsAdmin                   bool     `json:"isAdmin"`
	CanMakeModification       bool     `json:"canMakeModification"`
}

func (d *CreateDTO) Validate() error {
	if strings.TrimSpace(d.Login) == "" {
		return internal.NewValidationError("login is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Departments) == 0 {
		return internal.NewValidationError("at least one department is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateDTO is a partial update; nil fields stay untouched.
type UpdateDTO struct {
	ID                        string    `json:"_id"`
	Login                     *string   `json:"login,omitempty"`
	Name                      *string   `json:"name,omitempty"`
	Password                  *string   `json:"password,omitempty"`
	Departments               *[]string `json:"departments,omitempty"`
	CurrentDepartment         *string   `json:"currentDepartment,omitempty"`
	CurrentWorkflowInWork     *string   `json:"currentWorkflowInWork,omitempty"`
	IsSendLetterAboutNewWorks *bool     `json:"isSendLetterAboutNewWorks,omitempty"`
	CanStartStopWorks         *bool     `json:"canStartStopWorks,omitempty"`
	CanSeeStatistics          *bool     `json:"canSeeStatistics,omitempty"`
	IsAdmin                   *bool     `json:"isAdmin,omitempty"`
	CanMakeModification       *bool     `json:"canMakeModification,omitempty"`
	EmailConfirmed            *bool     `json:"-"`
}

func (d *UpdateDTO) Validate() error {
	if d.ID == "" {
		return internal.NewValidationError("user _id is required", internal.ErrCodeMissingID)
	}
	if d.Login != nil && strings.TrimSpace(*d.Login) == "" {
		return internal.NewValidationError("login must not be blank", internal.ErrCodeValidationFailed)
	}
	if d.Departments != nil && len(*d.Departments) == 0 {
		return internal.NewValidationError("departments must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// onlyCurrentWork reports whether the patch touches nothing but the work the
// user currently holds. Such updates stay quiet: no broadcast, no audit
// entry.
func (d *UpdateDTO) onlyCurrentWork() bool {
	return d.CurrentWorkflowInWork != nil &&
		d.Login == nil && d.Name == nil && d.Password == nil &&
		d.Departments == nil && d.CurrentDepartment == nil &&
		d.IsSendLetterAboutNewWorks == nil && d.CanStartStopWorks == nil &&
		d.CanSeeStatistics == nil && d.IsAdmin == nil && d.CanMakeModification == nil &&
		d.EmailConfirmed == nil
}

type LoginDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	if d.Login == "" || d.Password == "" {
		return internal.NewValidationError("login and password are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateEmailDTO struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// LoginResponse is the full profile plus the freshly issued session token.
type LoginResponse struct {
	readmodel.User
	LoginToken string `json:"loginToken"`
}
