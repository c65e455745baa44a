package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/graph"
	"net/http"
)

// GraphHandler describes the loaded road network.
type GraphHandler struct {
	Graph *graph.Graph
}

func (h *GraphHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GraphResponse{
		NodeCount:   h.Graph.NodeCount(),
		EdgeCount:   h.Graph.EdgeCount(),
		Depots:      h.Graph.Depots(),
		GasStations: h.Graph.GasStations(),
		Fingerprint: h.Graph.Fingerprint(),
	})
}
