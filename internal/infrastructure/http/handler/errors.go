package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/mrops-br/chaverito-api/internal/domain"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/http/response"
)

// errorStatuses maps domain errors to HTTP statuses, first match wins
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrProductNotFound, http.StatusNotFound},
	{domain.ErrCategoryNotFound, http.StatusNotFound},
	{domain.ErrInvalidQuantity, http.StatusBadRequest},
	{domain.ErrProductSoldOut, http.StatusConflict},
	{domain.ErrInsufficientStock, http.StatusConflict},
}

func statusOf(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	response.Error(w, statusOf(err), err)
}
