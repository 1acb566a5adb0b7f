package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
)

// RespondError maps domain errors to an error envelope. Unknown errors never leak their text.
func RespondError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, ErrNotFound):
		Fail(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, ErrValidation):
		Fail(w, http.StatusBadRequest, err.Error())
	default:
		Fail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
