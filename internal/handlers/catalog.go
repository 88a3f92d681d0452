package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divinetrims/orderdesk/internal/httpx"
	"github.com/divinetrims/orderdesk/internal/models"
	"github.com/divinetrims/orderdesk/internal/validation"
)

// CatalogHandler serves one reference-data catalog. The nine catalogs differ
// only by table, so a single generic handler is instantiated per model instead
// of nine copies of the same CRUD.
type CatalogHandler[T any, PT models.CatalogPtr[T]] struct {
	DB       *gorm.DB
	Resource string
}

func NewCatalogHandler[T any, PT models.CatalogPtr[T]](db *gorm.DB, resource string) *CatalogHandler[T, PT] {
	return &CatalogHandler[T, PT]{DB: db, Resource: resource}
}

// Register mounts the collection and item routes under path.
func (h *CatalogHandler[T, PT]) Register(mux *http.ServeMux, path string) {
	mux.HandleFunc("GET "+path, h.List)
	mux.HandleFunc("POST "+path, h.Create)
	mux.HandleFunc("PUT "+path+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+path+"/{id}", h.Delete)
}

// List returns the whole catalog, newest first. These collections stay small
// (a few hundred rows at most) so there is no pagination.
func (h *CatalogHandler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	items := []T{}
	if err := h.DB.WithContext(r.Context()).Order("created_at desc").Find(&items).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_"+h.Resource, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *CatalogHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var item T
	base := PT(&item).Base()
	base.ID = uuid.NewString()
	base.Name = input.Name
	if err := h.DB.WithContext(r.Context()).Create(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, h.Resource+"_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Update changes only the supplied fields; a blank name leaves the current one
// in place.
func (h *CatalogHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var item T
	if err := h.DB.WithContext(r.Context()).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, h.Resource+"_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, h.Resource+"_lookup_failed", nil)
		return
	}
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if strings.TrimSpace(input.Name) != "" {
		PT(&item).Base().Name = input.Name
	}
	if err := h.DB.WithContext(r.Context()).Save(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, h.Resource+"_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Delete is a hard delete with no referential check: orders referencing the
// row keep their join entries and the expanded view drops them on read.
func (h *CatalogHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var item T
	res := h.DB.WithContext(r.Context()).Where("id = ?", id).Delete(&item)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, h.Resource+"_delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, h.Resource+"_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
