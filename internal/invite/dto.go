package invite

import "github.com/bossrus/workflow-go/internal"

type CreateDTO struct {
	To       string `json:"to"`
	Workflow string `json:"workflow"`
}

func (d CreateDTO) Validate() error {
	if d.To == "" {
		return internal.NewValidationError("to is required", internal.ErrCodeValidationFailed)
	}
	if d.Workflow == "" {
		return internal.NewValidationError("workflow is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
