// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package assets

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/fluecraft/fluecraft/internal/logging"
	"github.com/fluecraft/fluecraft/internal/models"
)

// NotFoundFormat selects how the handler renders a miss. The routing layer
// decides per route: the API alias gets the JSON envelope, the plain media
// route gets text. The handler never sniffs Accept headers.
type NotFoundFormat int

const (
	// NotFoundPlain renders a text/plain 404 body.
	NotFoundPlain NotFoundFormat = iota
	// NotFoundJSON renders the standard APIResponse error envelope.
	NotFoundJSON
)

// Handler serves resolved media files over HTTP with range support, the
// content types the 3D viewer requires, and the media CORS policy.
type Handler struct {
	resolver *Resolver
}

// NewHandler returns a Handler streaming files located by resolver.
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// ServeFile resolves requestPath and streams the file. OPTIONS requests get
// an empty 204 with CORS headers regardless of whether the asset exists.
// requestPath may still be percent-encoded; it is decoded before resolution.
func (h *Handler) ServeFile(w http.ResponseWriter, req *http.Request, requestPath string, notFound NotFoundFormat) {
	h.applyCORS(w, req)

	if req.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	decoded, err := url.PathUnescape(requestPath)
	if err != nil {
		decoded = requestPath
	}

	resolved, err := h.resolver.Resolve(req.Context(), decoded)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.respondNotFound(w, decoded, notFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	f, err := os.Open(resolved)
	if err != nil {
		// The file can vanish between resolution and open; treat that as a
		// miss rather than a server fault.
		if os.IsNotExist(err) {
			h.respondNotFound(w, decoded, notFound)
			return
		}
		logging.Ctx(req.Context()).Err(err).Str("path", resolved).Msg("Failed to open resolved asset")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.Ctx(req.Context()).Err(err).Str("path", resolved).Msg("Failed to stat resolved asset")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeFor(resolved))
	if ext := filepath.Ext(resolved); IsModelExtension(ext) {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(resolved)))
		w.Header().Set("Accept-Ranges", "bytes")
	}

	// ServeContent handles Range, If-Modified-Since and HEAD, and keeps the
	// Content-Type set above.
	http.ServeContent(w, req, filepath.Base(resolved), info.ModTime(), f)
}

// applyCORS writes the media CORS headers. Permissive mode echoes any Origin
// with credentials allowed, falling back to a credential-less wildcard when
// the request carries no Origin (a wildcard origin cannot be combined with
// credentials). Restricted mode echoes only allow-listed origins.
func (h *Handler) applyCORS(w http.ResponseWriter, req *http.Request) {
	hdr := w.Header()
	origin := req.Header.Get("Origin")
	cfg := h.resolver.cfg

	switch {
	case cfg.PermissiveCORS && origin != "":
		hdr.Set("Access-Control-Allow-Origin", origin)
		hdr.Set("Access-Control-Allow-Credentials", "true")
	case cfg.PermissiveCORS:
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Credentials", "false")
	case origin != "" && cfg.originAllowed(origin):
		hdr.Set("Access-Control-Allow-Origin", origin)
		hdr.Set("Access-Control-Allow-Credentials", "true")
	default:
		hdr.Set("Access-Control-Allow-Credentials", "false")
	}

	hdr.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	hdr.Set("Access-Control-Allow-Headers", "Accept, Accept-Language, Content-Language, Content-Type, Origin, X-Requested-With")
	hdr.Set("Access-Control-Expose-Headers", "Content-Type, Content-Length, Accept-Ranges, Content-Disposition")
}

func (h *Handler) respondNotFound(w http.ResponseWriter, requestPath string, format NotFoundFormat) {
	if format == NotFoundJSON {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		resp := models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    "NOT_FOUND",
				Message: "File not found",
				Details: map[string]interface{}{"path": requestPath},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
		return
	}
	http.Error(w, fmt.Sprintf("File not found: %s", requestPath), http.StatusNotFound)
}
