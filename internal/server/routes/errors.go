package routes

import (
	"errors"
	"net/http"

	"github.com/arwindpianist/showcase/internal/entity"
)

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalid), errors.Is(err, entity.ErrSignature):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
	Paid    *bool  `json:"paid,omitempty"`
}
