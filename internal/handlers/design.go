package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divinetrims/orderdesk/internal/httpx"
	"github.com/divinetrims/orderdesk/internal/models"
	"github.com/divinetrims/orderdesk/internal/storage"
	"github.com/divinetrims/orderdesk/internal/validation"
)

const maxImageMemory = 32 << 20

// DesignHandler is the one catalog with its own handler: designs take
// multipart bodies because an image may ride along with the name. Uploaded
// binaries go to object storage first; only the resulting URL and key are
// persisted. A replaced image's previous object is left in the bucket.
type DesignHandler struct {
	DB       *gorm.DB
	Uploader storage.Uploader
	Prefix   string
}

func NewDesignHandler(db *gorm.DB, up storage.Uploader, prefix string) *DesignHandler {
	return &DesignHandler{DB: db, Uploader: up, Prefix: prefix}
}

func (h *DesignHandler) Register(mux *http.ServeMux, path string) {
	mux.HandleFunc("GET "+path, h.List)
	mux.HandleFunc("POST "+path, h.Create)
	mux.HandleFunc("GET "+path+"/{id}", h.Get)
	mux.HandleFunc("PUT "+path+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+path+"/{id}", h.Delete)
}

func (h *DesignHandler) List(w http.ResponseWriter, r *http.Request) {
	designs := []models.Design{}
	if err := h.DB.WithContext(r.Context()).Order("created_at desc").Find(&designs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_design", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, designs)
}

func (h *DesignHandler) Get(w http.ResponseWriter, r *http.Request) {
	var design models.Design
	if err := h.DB.WithContext(r.Context()).First(&design, "id = ?", r.PathValue("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "design_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "design_lookup_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, design)
}

func (h *DesignHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	name := r.FormValue("name")
	v := validation.Violations{}
	validation.Required("name", name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	design := models.Design{}
	design.ID = uuid.NewString()
	design.Name = name

	url, key, err := h.storeImage(r, design.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "image_upload_failed", nil)
		return
	}
	design.ImageURL = url
	design.ImagePath = key

	if err := h.DB.WithContext(r.Context()).Create(&design).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "design_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, design)
}

func (h *DesignHandler) Update(w http.ResponseWriter, r *http.Request) {
	var design models.Design
	if err := h.DB.WithContext(r.Context()).First(&design, "id = ?", r.PathValue("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "design_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "design_lookup_failed", nil)
		return
	}
	if err := r.ParseMultipartForm(maxImageMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	if name := r.FormValue("name"); strings.TrimSpace(name) != "" {
		design.Name = name
	}
	url, key, err := h.storeImage(r, design.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "image_upload_failed", nil)
		return
	}
	if key != "" {
		design.ImageURL = url
		design.ImagePath = key
	}
	if err := h.DB.WithContext(r.Context()).Save(&design).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "design_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, design)
}

func (h *DesignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res := h.DB.WithContext(r.Context()).Where("id = ?", r.PathValue("id")).Delete(&models.Design{})
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "design_delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "design_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// storeImage uploads the optional "image" part and returns its public URL and
// storage key, or empty strings when no file was sent.
func (h *DesignHandler) storeImage(r *http.Request, designID string) (url, key string, err error) {
	file, header, ferr := r.FormFile("image")
	if ferr != nil || header == nil || header.Size == 0 {
		return "", "", nil
	}
	defer file.Close()
	if h.Uploader == nil {
		return "", "", errors.New("object storage not configured")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key = storage.ImageKey(h.Prefix, designID, header.Filename)
	url, err = h.Uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}
