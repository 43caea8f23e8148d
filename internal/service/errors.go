package service

import (
	"errors"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/media"
)

var (
	// ErrNotLoggedIn is returned by calls that need a session user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrPasswordMismatch is returned by Register when confirmation checking is on.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// UnexpectedErrorText is shown for transport failures.
const UnexpectedErrorText = "An unexpected error occurred"

// UserMessage renders err for the alert modal. Server text is kept verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := api.AsStatus(err); ok {
		return se.Message
	}
	switch {
	case errors.Is(err, api.ErrTransport):
		return UnexpectedErrorText
	case errors.Is(err, ErrNotLoggedIn):
		return "Please log in first"
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, media.ErrPermissionDenied):
		return "Permission to read the file was denied"
	case errors.Is(err, media.ErrNotImage):
		return "The selected file is not an image"
	case errors.Is(err, media.ErrTooLarge):
		return "The selected image is too large"
	}
	return err.Error()
}
