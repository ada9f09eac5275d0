package shoutout

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/frahmantamala/bragboard/internal"
	"github.com/frahmantamala/bragboard/internal/auth"
	"github.com/frahmantamala/bragboard/internal/transport"
	"github.com/frahmantamala/bragboard/pkg/logger"
	"github.com/go-chi/chi"
)

// maxImageBytes caps an uploaded shout-out image.
const maxImageBytes = 10 << 20

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// CreateShoutOut handles POST /shoutouts. The body is multipart form
// data: message, optional tagged_user_ids (comma-separated), optional
// image file.
func (h *Handler) CreateShoutOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	dto := CreateShoutOutDTO{
		Message:       r.FormValue("message"),
		TaggedUserIDs: r.FormValue("tagged_user_ids"),
	}

	var image []byte
	var imageExt string
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		image, err = io.ReadAll(io.LimitReader(file, maxImageBytes))
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "failed to read image")
			return
		}
		imageExt = filepath.Ext(header.Filename)
	} else if !errors.Is(err, http.ErrMissingFile) {
		h.WriteError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	// image upload can stall on the object store; bound the whole write
	ctx, cancel := internal.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	view, err := h.Service.CreateShoutOut(ctx, caller, dto, image, imageExt)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

// GetFeed handles GET /shoutouts. An unparseable limit falls back to
// the default page size.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	feed, err := h.Service.GetFeed(limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, feed)
}

// React handles POST /shoutouts/{id}/react
func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	shoutOutID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shout-out id")
		return
	}

	var dto ReactDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.React(r.Context(), shoutOutID, caller, dto); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"shoutout_id": shoutOutID,
		"emoji":       dto.Emoji,
	})
}

// AddComment handles POST /shoutouts/{id}/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	shoutOutID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shout-out id")
		return
	}

	var dto CommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Service.AddComment(r.Context(), shoutOutID, caller, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /shoutouts/{id}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	shoutOutID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shout-out id")
		return
	}

	comments, err := h.Service.ListComments(shoutOutID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, comments)
}

// MyMetrics handles GET /shoutouts/metrics/me
func (h *Handler) MyMetrics(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	metrics, err := h.Service.MyMetrics(caller)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, metrics)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrShoutOutNotFound):
		h.WriteError(w, http.StatusNotFound, "shout-out not found")
	case errors.As(err, &vErr):
		h.WriteError(w, http.StatusBadRequest, vErr.Error())
	default:
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
