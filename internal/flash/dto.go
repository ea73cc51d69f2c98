package flash

import "github.com/bossrus/workflow-go/internal"

type CreateDTO struct {
	To      string `json:"to"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (d CreateDTO) Validate() error {
	if d.To == "" {
		return internal.NewValidationError("to is required", internal.ErrCodeValidationFailed)
	}
	if d.Type == "" {
		return internal.NewValidationError("type is required", internal.ErrCodeValidationFailed)
	}
	if d.Message == "" {
		return internal.NewValidationError("message is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
