package generatedresumes

import (
	"errors"

	"resume-builder/internal/shared/apperr"
)

// ErrNotFound is returned for missing rows and rows owned by someone else.
var ErrNotFound = errors.New("generated resume not found")

var errResumeNotFound = apperr.NewNotFound("resume_not_found", "generated resume not found")
