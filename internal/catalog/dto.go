package catalog

import (
	"strings"

	"github.com/bossrus/workflow-go/internal"
)

// UpsertDTO creates when ID is empty and patches otherwise. Nil fields are
// left untouched on update.
type UpsertDTO struct {
	ID               string  `json:"_id,omitempty"`
	Title            *string `json:"title,omitempty"`
	NumberInWorkflow *string `json:"numberInWorkflow,omitempty"`
	IsUsedInWorkflow *bool   `json:"isUsedInWorkflow,omitempty"`
}

func (d *UpsertDTO) Validate() error {
	if d.Title != nil && strings.TrimSpace(*d.Title) == "" {
		return internal.NewValidationError("title must not be blank", internal.ErrCodeValidationFailed)
	}
	if d.ID == "" && d.Title == nil {
		return internal.NewValidationError("title is required on create", internal.ErrCodeValidationFailed)
	}
	return nil
}
