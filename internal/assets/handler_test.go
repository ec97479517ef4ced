// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package assets

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/fluecraft/fluecraft/internal/models"
)

func newTestHandler(t *testing.T, cfg Config) (*Handler, string) {
	t.Helper()
	if cfg.MediaRoot == "" {
		cfg.MediaRoot = t.TempDir()
	}
	r, err := NewResolver(cfg)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return NewHandler(r), cfg.MediaRoot
}

func serveRequest(h *Handler, method, path, origin string, format NotFoundFormat, extra http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/media/"+path, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeFile(rec, req, path, format)
	return rec
}

func TestServeFileStreamsModel(t *testing.T) {
	t.Parallel()

	h, root := newTestHandler(t, Config{PermissiveCORS: true})
	writeAsset(t, root, "models/Chimney_Base.glb")

	rec := serveRequest(h, http.MethodGet, "models/Chimney_Base.glb", "", NotFoundPlain, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "model/gltf-binary" {
		t.Errorf("Content-Type = %q, want model/gltf-binary", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `inline; filename="Chimney_Base.glb"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q, want bytes", got)
	}
	if body := rec.Body.String(); body != "data:models/Chimney_Base.glb" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestServeFileDecodesPercentEncoding(t *testing.T) {
	t.Parallel()

	h, root := newTestHandler(t, Config{PermissiveCORS: true})
	writeAsset(t, root, "models/My Model.glb")

	rec := serveRequest(h, http.MethodGet, "models/My%20Model.glb", "", NotFoundPlain, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestServeFileRangeRequest(t *testing.T) {
	t.Parallel()

	h, root := newTestHandler(t, Config{PermissiveCORS: true})
	writeAsset(t, root, "models/Chimney_Base.glb")

	extra := http.Header{"Range": []string{"bytes=0-3"}}
	rec := serveRequest(h, http.MethodGet, "models/Chimney_Base.glb", "", NotFoundPlain, extra)

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", rec.Code)
	}
	if body := rec.Body.String(); body != "data" {
		t.Errorf("partial body = %q, want first 4 bytes", body)
	}
}

func TestServeFileNotFoundPlain(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, Config{PermissiveCORS: true})

	rec := serveRequest(h, http.MethodGet, "models/Missing.glb", "", NotFoundPlain, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if !strings.Contains(rec.Body.String(), "File not found: models/Missing.glb") {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestServeFileNotFoundJSON(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, Config{PermissiveCORS: true})

	rec := serveRequest(h, http.MethodGet, "models/Missing.glb", "", NotFoundJSON, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status = %q, want error", resp.Status)
	}
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Fatalf("error = %+v, want NOT_FOUND", resp.Error)
	}
	if resp.Error.Details["path"] != "models/Missing.glb" {
		t.Errorf("details.path = %v", resp.Error.Details["path"])
	}
}

func TestServeFileOptionsAlways204(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, Config{PermissiveCORS: true})

	// Preflight succeeds whether or not the asset exists.
	rec := serveRequest(h, http.MethodOptions, "models/Does_Not_Exist.glb", "http://localhost:3000", NotFoundPlain, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, HEAD, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
}

func TestMediaCORSHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		cfg             Config
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{
			name:            "permissive echoes origin with credentials",
			cfg:             Config{PermissiveCORS: true},
			origin:          "http://localhost:3000",
			wantOrigin:      "http://localhost:3000",
			wantCredentials: "true",
		},
		{
			name:            "permissive without origin falls back to wildcard",
			cfg:             Config{PermissiveCORS: true},
			wantOrigin:      "*",
			wantCredentials: "false",
		},
		{
			name:            "restricted echoes allow-listed origin",
			cfg:             Config{AllowedOrigins: []string{"https://catalog.example.com"}},
			origin:          "https://catalog.example.com",
			wantOrigin:      "https://catalog.example.com",
			wantCredentials: "true",
		},
		{
			name:            "restricted drops unknown origin",
			cfg:             Config{AllowedOrigins: []string{"https://catalog.example.com"}},
			origin:          "https://evil.example.com",
			wantOrigin:      "",
			wantCredentials: "false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, root := newTestHandler(t, tt.cfg)
			writeAsset(t, root, "models/Chimney_Base.glb")

			rec := serveRequest(h, http.MethodGet, "models/Chimney_Base.glb", tt.origin, NotFoundPlain, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCredentials)
			}
			if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
				t.Errorf("Expose-Headers = %q", got)
			}
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"models/a.glb", "model/gltf-binary"},
		{"models/a.GLB", "model/gltf-binary"},
		{"models/a.gltf", "model/gltf+json"},
		{"models/original/a.stp", "application/octet-stream"},
		{"drawings/a.dwg", "application/acad"},
		{"thumbnails/a.png", "image/png"},
		{"thumbnails/a.webp", "image/webp"},
		{"misc/unknown.zzz", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentTypeFor(tt.path); got != tt.want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
