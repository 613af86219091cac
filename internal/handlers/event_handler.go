package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/middleware"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/services"
)

type EventHandler struct {
	eventService *services.EventService
	userService  *services.UserService
}

func NewEventHandler(eventService *services.EventService, userService *services.UserService) *EventHandler {
	return &EventHandler{eventService: eventService, userService: userService}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var ev models.Event
	if err := decodeJSON(r, &ev); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	ev.CreatedBy = middleware.GetUserID(r.Context())

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	id, err := h.eventService.CreateEvent(ctx, &ev)
	if err != nil {
		if isEventValidationErr(err) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create event"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]string{"id": id}))
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var ev models.Event
	if err := decodeJSON(r, &ev); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.eventService.UpdateEvent(ctx, id, &ev); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Event not found"))
		case isEventValidationErr(err):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update event"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Event updated"}))
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	ev, err := h.eventService.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Event not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get event"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ev))
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.eventService.DeleteEvent(ctx, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete event"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Event deleted"}))
}

func (h *EventHandler) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	events, err := h.eventService.GetUpcomingEvents(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list events"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(events))
}

func (h *EventHandler) PastEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	cursor := r.URL.Query().Get("cursor")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	events, nextCursor, endOfData, err := h.eventService.GetPastEvents(ctx, limit, cursor)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown cursor"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list events"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"events":     events,
		"nextCursor": nextCursor,
		"endOfData":  endOfData,
	}))
}

// MyEvents shapes upcoming events around the caller's committees and event
// interests.
func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	pub, err := h.userService.GetPublicUser(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	events, err := h.eventService.GetUserEvents(ctx, pub.Committees, pub.Interests)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list events"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(events))
}

func (h *EventHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	id := chi.URLParam(r, "id")

	var req struct {
		Location *models.GeoPoint `json:"location"`
	}
	_ = decodeJSON(r, &req)

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	log, err := h.eventService.SignIn(ctx, id, userID, req.Location)
	if err != nil {
		writeSignErr(w, err, "Failed to sign in")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(log))
}

func (h *EventHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	id := chi.URLParam(r, "id")

	var req struct {
		Location *models.GeoPoint `json:"location"`
	}
	_ = decodeJSON(r, &req)

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	log, err := h.eventService.SignOut(ctx, id, userID, req.Location)
	if err != nil {
		writeSignErr(w, err, "Failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(log))
}

func (h *EventHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	nums, err := h.eventService.GetAttendanceNumbers(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to count attendance"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nums))
}

func (h *EventHandler) EventLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	logs, err := h.eventService.GetEventLogs(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list logs"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(logs))
}

// MyEventLogs pages through the caller's attendance history.
func (h *EventHandler) MyEventLogs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	limit := queryInt(r, "limit", 20)
	cursor := r.URL.Query().Get("cursor")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	logs, nextCursor, endOfData, err := h.eventService.GetUserEventLogs(ctx, userID, limit, cursor)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list logs"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"logs":       logs,
		"nextCursor": nextCursor,
		"endOfData":  endOfData,
	}))
}

func writeSignErr(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Event not found"))
	case errors.Is(err, services.ErrOutsideSignWindow):
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Outside the sign-in window"))
	case errors.Is(err, services.ErrOutsideGeofence):
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Location is outside the event area"))
	case errors.Is(err, services.ErrAlreadySignedIn):
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Already signed in"))
	case errors.Is(err, services.ErrNotSignedIn):
		writeJSON(w, http.StatusConflict, models.NewErrorResponse("Not signed in"))
	default:
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(fallback))
	}
}

func isEventValidationErr(err error) bool {
	return errors.Is(err, models.ErrEventNameRequired) ||
		errors.Is(err, models.ErrEventTimesInvalid) ||
		errors.Is(err, models.ErrNegativeBuffer) ||
		errors.Is(err, models.ErrNegativePoints) ||
		errors.Is(err, models.ErrGeofenceNeedsSetup)
}
