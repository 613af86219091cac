package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/cache"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/middleware"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/services"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/validation"
)

type UserHandler struct {
	userService    *services.UserService
	storageService *services.StorageService
	functions      *services.FunctionsClient
	userCache      *cache.UserCache
	maxResumeMB    int64
}

func NewUserHandler(userService *services.UserService, storageService *services.StorageService, functions *services.FunctionsClient, userCache *cache.UserCache, maxResumeMB int64) *UserHandler {
	if maxResumeMB <= 0 {
		maxResumeMB = 10
	}
	return &UserHandler{
		userService:    userService,
		storageService: storageService,
		functions:      functions,
		userCache:      userCache,
		maxResumeMB:    maxResumeMB,
	}
}

// InitializeUser creates the user's documents on first sign-in. Safe to call
// again; an existing user is returned unchanged.
func (h *UserHandler) InitializeUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req struct {
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoURL"`
	}
	_ = decodeJSON(r, &req)

	if req.DisplayName != "" && !validation.ValidateDisplayName(req.DisplayName) {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"displayName": "must be 1-80 characters"}))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	user, err := h.userService.InitializeUser(ctx, userID, middleware.GetUserEmail(r.Context()), req.DisplayName, req.PhotoURL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to initialize user"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		// Serve the last persisted copy when the backend is unreachable.
		if cached := h.userCache.Get(userID); cached != nil {
			writeJSON(w, http.StatusOK, models.NewSuccessResponse(cached))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get user"))
		return
	}
	_ = h.userCache.Put(userID, user)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

// GetUser returns another member's public profile.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	pub, err := h.userService.GetPublicUser(ctx, uid)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get user"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(pub))
}

func (h *UserHandler) UpdatePublicProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var fields map[string]interface{}
	if err := decodeJSON(r, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if name, ok := fields["displayName"].(string); ok && !validation.ValidateDisplayName(name) {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"displayName": "must be 1-80 characters"}))
		return
	}
	if name, ok := fields["name"].(string); ok && !validation.ValidateName(name) {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"name": "must be 1-255 characters"}))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.SetPublicUser(ctx, userID, fields); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}
	_ = h.userCache.Remove(userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Profile updated"}))
}

func (h *UserHandler) UpdatePrivateSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var fields map[string]interface{}
	if err := decodeJSON(r, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.SetPrivateUser(ctx, userID, fields); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update settings"))
		return
	}
	_ = h.userCache.Remove(userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Settings updated"}))
}

func (h *UserHandler) SavePushToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Push token is required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.SaveExpoPushToken(ctx, userID, req.Token); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save push token"))
		return
	}
	_ = h.userCache.SetPushToken(userID, req.Token)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Push token saved"}))
}

func (h *UserHandler) CompleteAccountSetup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.CompleteAccountSetup(ctx, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to complete account setup"))
		return
	}
	_ = h.userCache.Remove(userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Account setup complete"}))
}

// AddPoints credits points to a member, officer-gated at the route level.
func (h *UserHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req struct {
		Points float64 `json:"points"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.AddPoints(ctx, uid, req.Points); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add points"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Points added"}))
}

// Leaderboard pages through members ordered by points.
func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	filter := services.LeaderboardAllTime
	if r.URL.Query().Get("filter") == string(services.LeaderboardMonthly) {
		filter = services.LeaderboardMonthly
	}
	limit := queryInt(r, "limit", 20)
	cursor := r.URL.Query().Get("cursor")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	users, nextCursor, endOfData, err := h.userService.GetSortedUsers(ctx, filter, limit, cursor)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown cursor"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load leaderboard"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"users":      users,
		"nextCursor": nextCursor,
		"endOfData":  endOfData,
	}))
}

// UploadResume stores the member's resume in the document bucket and records
// the download URL on their public profile.
func (h *UserHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	maxBytes := h.maxResumeMB << 20
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Resume file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !validation.ValidateFileBlob(contentType, header.Size, validation.ResumeFiles, maxBytes) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(fmt.Sprintf("Resume must be a PDF or Word document under %d MB", h.maxResumeMB)))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	path := services.UserDocPath(userID, header.Filename)
	url, err := h.storageService.Upload(ctx, path, contentType, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to upload resume"))
		return
	}
	if err := h.storageService.VerifyObject(ctx, path); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Upload could not be verified"))
		return
	}

	if err := h.userService.SetPublicUser(ctx, userID, map[string]interface{}{"resumeURL": url}); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to record resume"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"resumeURL": url}))
}

// ListPublicResumes returns verified resume-bank entries, optionally filtered
// by major and class year.
func (h *UserHandler) ListPublicResumes(w http.ResponseWriter, r *http.Request) {
	major := r.URL.Query().Get("major")
	classYear := r.URL.Query().Get("classYear")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	users, err := h.userService.FetchUsersWithPublicResumes(ctx, major, classYear)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list resumes"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(users))
}

// SubmitResumeVerification asks for the member's resume to be added to the
// public bank.
func (h *UserHandler) SubmitResumeVerification(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req struct {
		ResumeURL string `json:"resumeURL"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ResumeURL == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Resume URL is required"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.SubmitResumeVerification(ctx, userID, req.ResumeURL); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to submit resume"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]string{"message": "Resume submitted for verification"}))
}

func (h *UserHandler) ListResumeVerifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	reqs, err := h.userService.ListResumeVerifications(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list verifications"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(reqs))
}

func (h *UserHandler) ApproveResume(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.ApproveResume(ctx, uid); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to approve resume"))
		return
	}
	h.notifyResumeResult(r, uid, true)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Resume approved"}))
}

func (h *UserHandler) DenyResume(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	if err := h.userService.DenyResume(ctx, uid); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to deny resume"))
		return
	}
	h.notifyResumeResult(r, uid, false)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Resume denied"}))
}

func (h *UserHandler) notifyResumeResult(r *http.Request, uid string, approved bool) {
	if h.functions == nil {
		return
	}
	// Best effort; the review outcome is already recorded.
	_ = h.functions.Call(r.Context(), services.ProcSendNotificationResumeConfirm, map[string]interface{}{
		"uid":      uid,
		"approved": approved,
	})
}
