package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/divinetrims/orderdesk/internal/httpx"
)

// ProxyImageHandler fetches an externally hosted image server-side and streams
// it back. The browser-based PDF export cannot read cross-origin images into a
// canvas, so it requests them through here instead.
type ProxyImageHandler struct {
	Client *http.Client
}

func NewProxyImageHandler() *ProxyImageHandler {
	return &ProxyImageHandler{Client: &http.Client{Timeout: 15 * time.Second}}
}

func (h *ProxyImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		httpx.JSONError(w, http.StatusBadRequest, "url_required", nil)
		return
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_url", nil)
		return
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_fetch_image", nil)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_fetch_image", nil)
		return
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		_ = err
	}
}
