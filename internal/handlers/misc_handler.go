package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/middleware"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/services"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/validation"
)

const maxSlideBytes = 8 << 20

// MiscHandler covers the small singleton surfaces: links, the featured
// carousel, office hours and member of the month.
type MiscHandler struct {
	linkService   *services.LinkService
	slideService  *services.SlideService
	officeService *services.OfficeService
	motmService   *services.MOTMService
}

func NewMiscHandler(links *services.LinkService, slides *services.SlideService, office *services.OfficeService, motm *services.MOTMService) *MiscHandler {
	return &MiscHandler{
		linkService:   links,
		slideService:  slides,
		officeService: office,
		motmService:   motm,
	}
}

func (h *MiscHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	links, err := h.linkService.GetLinks(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list links"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(links))
}

func (h *MiscHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Link id must be numeric"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	link, err := h.linkService.GetLink(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrLinkIDOutOfRange) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get link"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(link))
}

func (h *MiscHandler) SetLink(w http.ResponseWriter, r *http.Request) {
	var link models.Link
	if err := decodeJSON(r, &link); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.linkService.SetLink(ctx, &link); err != nil {
		if errors.Is(err, services.ErrLinkIDOutOfRange) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save link"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(link))
}

func (h *MiscHandler) ListSlides(w http.ResponseWriter, r *http.Request) {
	shuffle, _ := strconv.ParseBool(r.URL.Query().Get("shuffle"))

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	slides, err := h.slideService.GetSlides(ctx, shuffle)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list slides"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(slides))
}

func (h *MiscHandler) AddSlide(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSlideBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Image file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !validation.ValidateFileBlob(contentType, header.Size, validation.ImageFiles, maxSlideBytes) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Slide must be an image under 8 MB"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	slide, err := h.slideService.AddSlide(ctx, header.Filename, contentType, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add slide"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(slide))
}

func (h *MiscHandler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.slideService.DeleteSlide(ctx, id); err != nil {
		if errors.Is(err, services.ErrSlideNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Slide not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete slide"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Slide deleted"}))
}

// SetOfficerStatus flips the caller's in-office flag.
func (h *MiscHandler) SetOfficerStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req struct {
		SignedIn bool `json:"signedIn"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	status, err := h.officeService.SetOfficerStatus(ctx, userID, req.SignedIn)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update status"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(status))
}

func (h *MiscHandler) OfficeCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	count, err := h.officeService.GetOfficeCount(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get office count"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]int64{"count": count}))
}

func (h *MiscHandler) OfficerStatuses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	statuses, err := h.officeService.GetOfficerStatuses(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list statuses"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(statuses))
}

func (h *MiscHandler) ResetOffice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.officeService.ResetOfficeState(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to reset office state"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Office state reset"}))
}

func (h *MiscHandler) GetMemberOfTheMonth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	m, err := h.motmService.GetMemberOfTheMonth(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get member of the month"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(m))
}

func (h *MiscHandler) SetMemberOfTheMonth(w http.ResponseWriter, r *http.Request) {
	var m models.MemberOfTheMonth
	if err := decodeJSON(r, &m); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.motmService.SetMemberOfTheMonth(ctx, &m); err != nil {
		if errors.Is(err, services.ErrUIDRequired) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Member UID is required"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to set member of the month"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(m))
}

func (h *MiscHandler) PastMembersOfTheMonth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	members, err := h.motmService.GetPastMembers(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list past members"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(members))
}
