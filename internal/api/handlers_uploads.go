// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fluecraft/fluecraft/internal/logging"
	"github.com/fluecraft/fluecraft/internal/metrics"
	"github.com/fluecraft/fluecraft/internal/models"
)

// multipartFile opens the "file" part of a multipart upload, enforcing the
// configured size limit. On failure a response has been written.
func (h *Handler) multipartFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Media.MaxUploadBytes)

	// 32MB in memory, the rest spills to temp files.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "UPLOAD_ERROR",
				fmt.Sprintf("Upload exceeds the %d byte limit", h.cfg.Media.MaxUploadBytes), nil)
			return nil, nil, false
		}
		respondError(w, http.StatusBadRequest, "UPLOAD_ERROR", "Request is not valid multipart form data", err)
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "UPLOAD_ERROR", "No file provided", nil)
		return nil, nil, false
	}
	return file, header, true
}

// uploadExt returns the lowercased extension when it is in allowed,
// otherwise "".
func uploadExt(filename string, allowed []string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return ext
		}
	}
	return ""
}

// saveUpload writes the uploaded file under the media root at
// folder/<uuid>_<original-name> and returns the media-relative path.
// The random prefix prevents collisions and path guessing; the original name
// is kept so the resolver's token matching still works on these files.
func (h *Handler) saveUpload(file multipart.File, folder, originalName string) (string, error) {
	name := uuid.New().String() + "_" + filepath.Base(originalName)
	rel := folder + "/" + name

	dir := filepath.Join(h.cfg.Media.Root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close upload file")
		}
	}()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return rel, nil
}

// uploadDesign finds or creates the design a model-type upload attaches to.
// Returns nil design when no model type was given; uploads without a type
// just land on disk.
func (h *Handler) uploadDesign(r *http.Request) (*models.Design, error) {
	key := r.FormValue("model_type")
	if key == "" {
		key = r.URL.Query().Get("model_type")
	}
	if key == "" {
		return nil, nil
	}

	var createdBy *int64
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		createdBy = &claims.UserID
	}

	design, created, err := h.db.GetOrCreateDesignByTitle(r.Context(), titleForModelType(key), createdBy)
	if err != nil {
		return nil, err
	}
	if created {
		logging.Ctx(r.Context()).Info().
			Str("model_type", sanitizeLogValue(key)).
			Int64("design_id", design.ID).
			Msg("Created design for upload")
	}
	return design, nil
}

// recordDesignFile appends a design_files row for an upload. Bookkeeping
// only; a failure here must not fail an upload whose file is already on disk
// and on the design record.
func (h *Handler) recordDesignFile(r *http.Request, designID int64, rel, fileType, fileName string, primary bool) {
	f := &models.DesignFile{
		DesignID:  designID,
		Path:      rel,
		FileType:  fileType,
		FileName:  fileName,
		IsPrimary: primary,
	}
	if err := h.db.AddDesignFile(r.Context(), f); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Int64("design_id", designID).
			Msg("Failed to record design file")
	}
}

// UploadGLB accepts a viewer-ready GLB/GLTF file into models/ and, when a
// model type is given, makes it the design's active model.
func (h *Handler) UploadGLB(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.multipartFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	if uploadExt(header.Filename, []string{".glb", ".gltf"}) == "" {
		respondError(w, http.StatusBadRequest, "UPLOAD_ERROR", "File must be a GLB or GLTF file", nil)
		return
	}

	rel, err := h.saveUpload(file, "models", header.Filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store file", err)
		return
	}

	result := &models.UploadResult{
		Path:       rel,
		URL:        mediaURL(rel),
		GLBFileURL: mediaURL(rel),
	}

	design, err := h.uploadDesign(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to associate upload with design", err)
		return
	}
	if design != nil {
		// Viewer-ready format: the uploaded file is both the model and the
		// original.
		design.ModelFile = rel
		design.OriginalFile = rel
		design.OriginalFileFormat = "GLB"
		if err := h.db.UpdateDesign(r.Context(), design); err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update design", err)
			return
		}
		h.recordDesignFile(r, design.ID, rel, models.FileTypeModel, header.Filename, true)
		result.DesignID = design.ID
		result.DesignTitle = design.Title
		result.ModelType = r.FormValue("model_type")
	}

	h.listings.Invalidate(modelTypesCacheKey)
	metrics.UploadsTotal.WithLabelValues("glb").Inc()
	respondSuccess(w, http.StatusCreated, result)
}

// UploadImage accepts a raster image into thumbnails/ (default) or images/.
// Thumbnail uploads with a model type become the design's thumbnail.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.multipartFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	if uploadExt(header.Filename, []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}) == "" {
		respondError(w, http.StatusBadRequest, "UPLOAD_ERROR", "File must be an image", nil)
		return
	}

	isThumbnail := true
	if v := r.FormValue("is_thumbnail"); v != "" {
		isThumbnail = strings.EqualFold(v, "true")
	}
	folder := "thumbnails"
	if !isThumbnail {
		folder = "images"
	}

	rel, err := h.saveUpload(file, folder, header.Filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store file", err)
		return
	}

	result := &models.UploadResult{
		Path: rel,
		URL:  mediaURL(rel),
	}
	if isThumbnail {
		result.ThumbnailURL = mediaURL(rel)
	}

	if isThumbnail {
		design, err := h.uploadDesign(r)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to associate upload with design", err)
			return
		}
		if design != nil {
			design.Thumbnail = rel
			if err := h.db.UpdateDesign(r.Context(), design); err != nil {
				respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update design", err)
				return
			}
			result.DesignID = design.ID
			result.DesignTitle = design.Title
			result.ModelType = r.FormValue("model_type")
		}
	}

	h.listings.Invalidate(modelTypesCacheKey)
	metrics.UploadsTotal.WithLabelValues("image").Inc()
	respondSuccess(w, http.StatusCreated, result)
}

// Upload3DObject accepts a source 3D file into models/original/. STEP files
// are flagged for conversion; GLB/GLTF files double as the viewer model
// immediately.
func (h *Handler) Upload3DObject(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.multipartFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	ext := uploadExt(header.Filename, []string{".glb", ".gltf", ".stp", ".step"})
	if ext == "" {
		respondError(w, http.StatusBadRequest, "UPLOAD_ERROR",
			"File must be a GLB (.glb, .gltf) or STEP (.stp, .step) file", nil)
		return
	}
	isGLB := ext == ".glb" || ext == ".gltf"

	rel, err := h.saveUpload(file, "models/original", header.Filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store file", err)
		return
	}

	format := strings.ToUpper(strings.TrimPrefix(ext, "."))
	result := &models.UploadResult{
		Path:            rel,
		URL:             mediaURL(rel),
		OriginalFileURL: mediaURL(rel),
		FileFormat:      format,
		NeedsConversion: !isGLB,
	}
	if isGLB {
		result.GLBFileURL = mediaURL(rel)
	}

	design, err := h.uploadDesign(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to associate upload with design", err)
		return
	}
	if design != nil {
		design.OriginalFile = rel
		design.OriginalFileFormat = format
		if isGLB {
			design.ModelFile = rel
		}
		// STEP uploads leave ModelFile alone until conversion produces a GLB.
		if err := h.db.UpdateDesign(r.Context(), design); err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update design", err)
			return
		}
		h.recordDesignFile(r, design.ID, rel, models.FileTypeOriginal, header.Filename, isGLB)
		result.DesignID = design.ID
		result.DesignTitle = design.Title
		result.ModelType = r.FormValue("model_type")
	}

	h.listings.Invalidate(modelTypesCacheKey)
	metrics.UploadsTotal.WithLabelValues("model").Inc()
	respondSuccess(w, http.StatusCreated, result)
}
