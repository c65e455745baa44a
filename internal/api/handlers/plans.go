package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// RoutePlanner is the part of services.Planner the plan endpoint needs.
type RoutePlanner interface {
	Plan(ctx context.Context, req services.PlanDeliveriesRequest) (*domain.RoutePlan, error)
}

type PlanHandler struct {
	Planner       RoutePlanner
	Repo          ports.RequestRepository
	TankCapacity  int
	CargoCapacity int
}

// Plan selects a load for one vehicle, picks its depot and returns the
// refuel-aware route.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	svcReq := services.PlanDeliveriesRequest{
		Requests:      dto.ToDomainRequests(req.Requests),
		TankCapacity:  h.TankCapacity,
		CargoCapacity: h.CargoCapacity,
	}
	if req.TankCapacity != nil {
		svcReq.TankCapacity = *req.TankCapacity
	}
	if req.CargoCapacity != nil {
		svcReq.CargoCapacity = *req.CargoCapacity
	}

	if req.UseStoredRequests {
		if len(req.Requests) > 0 {
			writeError(w, r, http.StatusBadRequest, "requests must be empty when use_stored_requests is set")
			return
		}
		if h.Repo == nil {
			writeError(w, r, http.StatusBadRequest, "no request store configured")
			return
		}

		stored, err := h.Repo.ListRequests(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "list requests failed", "err", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		svcReq.Requests = stored
	}

	plan, err := h.Planner.Plan(r.Context(), svcReq)
	if err != nil {
		status := planErrorStatus(err)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "plan deliveries failed", "err", err)
			writeError(w, r, status, "internal server error")
			return
		}
		writeError(w, r, status, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}

// planErrorStatus maps input errors to 400 and infeasible routes to 422.
func planErrorStatus(err error) int {
	switch {
	case services.IsInputError(err):
		return http.StatusBadRequest
	case services.IsPlanningFailure(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	return "invalid field " + fe.Namespace() + ": failed " + fe.Tag() + " check"
}
