package onboarding

import "resume-builder/internal/shared/apperr"

var (
	ErrUnknownStep      = apperr.NewValidation("unknown_step", "unknown onboarding step")
	ErrEntryOutOfRange  = apperr.NewValidation("entry_out_of_range", "entry index is out of range")
	ErrUnknownField     = apperr.NewValidation("unknown_field", "field must be title or description")
	ErrAlreadySubmitted = apperr.NewValidation("already_submitted", "onboarding was already submitted")
)
