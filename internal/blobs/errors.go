package blobs

import (
	"errors"

	"resume-builder/internal/shared/apperr"
)

var ErrNotFound = errors.New("blob not found")

var (
	ErrTitleRequired      = apperr.NewValidation("title_required", "title is required")
	ErrTitleTooLong       = apperr.NewValidation("title_too_long", "title is too long")
	ErrDescriptionTooLong = apperr.NewValidation("description_too_long", "description is too long")
	ErrTooManyTags        = apperr.NewValidation("too_many_tags", "too many tags")
	ErrRequestInProgress  = apperr.NewValidation("request_in_progress", "an identical request is still being processed")
	errBlobNotFound       = apperr.NewNotFound("blob_not_found", "blob not found")
)

// asAppErr maps repository sentinels onto the shared taxonomy.
func asAppErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return errBlobNotFound.Wrap(err)
	}
	return err
}
