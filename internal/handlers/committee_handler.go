package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/middleware"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/services"
)

type CommitteeHandler struct {
	committeeService *services.CommitteeService
}

func NewCommitteeHandler(committeeService *services.CommitteeService) *CommitteeHandler {
	return &CommitteeHandler{committeeService: committeeService}
}

func (h *CommitteeHandler) ListCommittees(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	committees, err := h.committeeService.GetCommittees(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list committees"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(committees))
}

func (h *CommitteeHandler) GetCommittee(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	committee, err := h.committeeService.GetCommittee(ctx, name)
	if err != nil {
		if errors.Is(err, services.ErrCommitteeNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Committee not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get committee"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(committee))
}

func (h *CommitteeHandler) SetCommittee(w http.ResponseWriter, r *http.Request) {
	var committee models.Committee
	if err := decodeJSON(r, &committee); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.SetCommittee(ctx, &committee); err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyDocName):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Committee document name is required"))
		case errors.Is(err, services.ErrInvalidCommitteeHead):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Committee head must be an existing user"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save committee"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(committee))
}

func (h *CommitteeHandler) ResetCommittee(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.ResetCommittee(ctx, name); err != nil {
		if errors.Is(err, services.ErrCommitteeNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Committee not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to reset committee"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Committee reset"}))
}

func (h *CommitteeHandler) DeleteCommittee(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.DeleteCommittee(ctx, name); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete committee"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Committee deleted"}))
}

func (h *CommitteeHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	members, err := h.committeeService.GetCommitteeMembers(ctx, name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list members"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(members))
}

func (h *CommitteeHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.JoinCommittee(ctx, name, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrCommitteeNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Committee not found"))
		case errors.Is(err, services.ErrCommitteeClosed):
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Committee is closed; submit a request instead"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to join committee"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Joined committee"}))
}

func (h *CommitteeHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.LeaveCommittee(ctx, name, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to leave committee"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Left committee"}))
}

func (h *CommitteeHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.SubmitRequest(ctx, name, userID); err != nil {
		if errors.Is(err, services.ErrCommitteeNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Committee not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to submit request"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]string{"message": "Request submitted"}))
}

func (h *CommitteeHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.CancelRequest(ctx, name, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to cancel request"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Request cancelled"}))
}

func (h *CommitteeHandler) RequestStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	name := chi.URLParam(r, "name")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	pending, err := h.committeeService.CheckRequestStatus(ctx, name, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to check request"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"pending": pending}))
}

// ApproveRequest grants a pending join request, officer-gated at the route
// level. The target member's UID comes from the path, not the caller.
func (h *CommitteeHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	uid := chi.URLParam(r, "uid")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.ApproveRequest(ctx, name, uid); err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingRequest):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No pending request"))
		case errors.Is(err, services.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to approve request"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Request approved"}))
}

// DenyRequest drops a pending join request without adding the member.
func (h *CommitteeHandler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	uid := chi.URLParam(r, "uid")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.committeeService.CancelRequest(ctx, name, uid); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to deny request"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Request denied"}))
}
