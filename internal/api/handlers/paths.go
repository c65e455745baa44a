package handlers

import (
	"context"
	"errors"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/shortestpath"
	"log/slog"
	"net/http"
	"strconv"
)

type PathFinder interface {
	Path(ctx context.Context, src, dst int) (shortestpath.Path, error)
}

type PathHandler struct {
	Finder PathFinder
}

// Get answers GET /paths?from=&to= with a single shortest path.
func (h *PathHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	from, err := strconv.Atoi(q.Get("from"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "from must be an integer node id")
		return
	}
	to, err := strconv.Atoi(q.Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "to must be an integer node id")
		return
	}

	path, err := h.Finder.Path(r.Context(), from, to)
	switch {
	case errors.Is(err, graph.ErrNodeOutOfRange):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, shortestpath.ErrUnreachable):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "shortest path failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PathResponse{
		From:     from,
		To:       to,
		Nodes:    path.Nodes,
		Distance: path.Distance,
	})
}
