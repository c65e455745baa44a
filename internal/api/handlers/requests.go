package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/ports"
	"log/slog"
	"net/http"
)

// RequestHandler exposes read-only access to stored delivery requests.
type RequestHandler struct {
	Repo ports.RequestRepository
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	if h.Repo == nil {
		writeError(w, r, http.StatusNotFound, "no request store configured")
		return
	}

	reqs, err := h.Repo.ListRequests(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list requests failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListRequestsResponse{Requests: dto.NewDeliveries(reqs)})
}
