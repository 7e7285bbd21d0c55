package generation

import "resume-builder/internal/shared/apperr"

var (
	ErrNotFound     = apperr.NewNotFound("generation_not_found", "generation not found")
	ErrWrongStep    = apperr.NewValidation("wrong_step", "action is not available on this step")
	ErrNoSelection  = apperr.NewValidation("no_selection", "select at least one blob")
	ErrUnknownBlob  = apperr.NewValidation("unknown_blob", "blob is not part of this generation")
	ErrNoBlobs      = apperr.NewValidation("no_blobs", "add experience blobs before generating")
	ErrFeedbackSize = apperr.NewValidation("feedback_too_long", "feedback is too long")
)
