// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fluecraft/fluecraft/internal/database"
	"github.com/fluecraft/fluecraft/internal/logging"
	"github.com/fluecraft/fluecraft/internal/models"
)

// fallbackModelPaths maps each model type to the media-relative GLB
// candidates probed when the design record has no usable model file. Entries
// containing '*' are glob patterns; the first on-disk match wins. The trailing
// catch-all keeps the viewer working from whatever GLB exists under
// models/original.
var fallbackModelPaths = map[string][]string{
	"wall_mounted_skin": {
		"models/WMSS_Single_Skin.glb",
		"models/original/WMSS_Single_Skin.glb",
		"models/WMSS_Single_Skin_*.glb",
		"models/original/WMSS_Single_Skin*.glb",
		"models/original/*.glb",
	},
	"wall_mounted_single_plenum": {
		"models/original/WMSS_Single_Skin_5Secs_1_sVZ4uVd.glb",
		"models/WMSS_Single_Skin_5Secs_1_sVZ4uVd.glb",
		"models/original/WMSS_Single_Skin_5Secs*.glb",
		"models/original/*.glb",
	},
	"wall_mounted_double_skin": {
		"models/GA___Drawing_DS1__Date_201023041524.glb",
		"models/original/GA___Drawing_DS1__Date_201023041524.glb",
		"models/original/GA___Drawing_DS1*.glb",
		"models/original/*.glb",
	},
	"wall_mounted_compensating": {
		"models/GA___Drawing_DS2__Date_201023041758.glb",
		"models/original/GA___Drawing_DS2__Date_201023041758.glb",
		"models/original/GA___Drawing_DS2*.glb",
		"models/original/*.glb",
	},
	"uv_compensating": {
		"models/GA___Drawing_DS2__Date_201023041758.glb",
		"models/original/GA___Drawing_DS2__Date_201023041758.glb",
		"models/original/GA___Drawing_DS2*.glb",
		"models/original/*.glb",
	},
	"island_single_skin": {
		"models/GA___Drawing_DS3__Date_201023042051.glb",
		"models/original/GA___Drawing_DS3__Date_201023042051.glb",
		"models/original/GA___Drawing_DS3*.glb",
		"models/original/*.glb",
	},
	"island_double_skin": {
		"models/GA___Drawing_DS4__Date_201023042629.glb",
		"models/original/GA___Drawing_DS4__Date_201023042629.glb",
		"models/original/GA___Drawing_DS4*.glb",
		"models/original/*.glb",
	},
	"island_compensating": {
		"models/GA___Drawing_DS5__Date_201023043026.glb",
		"models/original/GA___Drawing_DS5__Date_201023043026.glb",
		"models/original/GA___Drawing_DS5*.glb",
		"models/original/*.glb",
	},
}

// titleForModelType resolves the display title for a key, title-casing
// unknown keys so arbitrary types can still be created through uploads.
func titleForModelType(key string) string {
	if title, ok := models.ModelTypeTitle(key); ok {
		return title
	}
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// mediaFileExists reports whether a media-relative path exists as a regular
// file under the media root.
func (h *Handler) mediaFileExists(rel string) bool {
	if rel == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(h.cfg.Media.Root, filepath.FromSlash(rel)))
	return err == nil && info.Mode().IsRegular()
}

// probeFallbackGLB returns the first on-disk candidate for a model type, as
// a media-relative path, or "".
func (h *Handler) probeFallbackGLB(key string) string {
	for _, candidate := range fallbackModelPaths[key] {
		if strings.Contains(candidate, "*") {
			matches, err := filepath.Glob(filepath.Join(h.cfg.Media.Root, filepath.FromSlash(candidate)))
			if err != nil || len(matches) == 0 {
				continue
			}
			rel, err := filepath.Rel(h.cfg.Media.Root, matches[0])
			if err != nil {
				continue
			}
			return filepath.ToSlash(rel)
		}
		if h.mediaFileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// designGLBPath returns the design's existence-verified model path, falling
// back to the original upload when the converted model is missing.
func (h *Handler) designGLBPath(d *models.Design) string {
	if h.mediaFileExists(d.ModelFile) {
		return d.ModelFile
	}
	if h.mediaFileExists(d.OriginalFile) {
		return d.OriginalFile
	}
	return ""
}

// previewForGLB returns the media-relative path of the "_preview.png"
// sibling rendered next to a GLB, or "".
func (h *Handler) previewForGLB(glbRel string) string {
	if glbRel == "" {
		return ""
	}
	preview := strings.TrimSuffix(glbRel, filepath.Ext(glbRel)) + "_preview.png"
	if h.mediaFileExists(preview) {
		return preview
	}
	return ""
}

// modelTypesCacheKey is the single listings-cache key for the tile grid.
const modelTypesCacheKey = "model-types"

// ListModelTypes enumerates the fixed model-type tiles with
// existence-verified model and preview URLs. Public, cached.
func (h *Handler) ListModelTypes(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.listings.Get(modelTypesCacheKey); ok {
		respondSuccess(w, http.StatusOK, cached)
		return
	}

	list := make([]models.ModelTypeInfo, 0, len(models.ModelTypeOrder))

	for _, key := range models.ModelTypeOrder {
		info := models.ModelTypeInfo{
			ModelType: key,
			Title:     titleForModelType(key),
		}

		var glbRel string
		design, err := h.db.GetActiveDesignByTitle(r.Context(), info.Title)
		if err == nil {
			glbRel = h.designGLBPath(design)
		} else if !errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list model types", err)
			return
		}
		if glbRel == "" {
			glbRel = h.probeFallbackGLB(key)
			if glbRel == "" {
				logging.Ctx(r.Context()).Warn().
					Str("model_type", key).
					Msg("No GLB found for model type")
			}
		}
		info.GLBURL = mediaURL(glbRel)
		info.HasModel = glbRel != ""

		var previewRel string
		if design != nil && h.mediaFileExists(design.Thumbnail) {
			previewRel = design.Thumbnail
		} else {
			previewRel = h.previewForGLB(glbRel)
		}
		info.PreviewURL = mediaURL(previewRel)
		info.HasPreview = previewRel != ""

		list = append(list, info)
	}

	data := map[string]interface{}{"model_types": list}
	h.listings.Set(modelTypesCacheKey, data)
	respondSuccess(w, http.StatusOK, data)
}

// modelTypeParam accepts both ?type= and ?model_type= for frontend
// compatibility.
func modelTypeParam(r *http.Request) string {
	if v := r.URL.Query().Get("type"); v != "" {
		return v
	}
	return r.URL.Query().Get("model_type")
}

// GetModelByType returns the design for one model type with
// existence-verified URLs, creating the design on demand so uploads have
// somewhere to land. Public.
func (h *Handler) GetModelByType(w http.ResponseWriter, r *http.Request) {
	key := modelTypeParam(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Model type parameter required (use ?type= or ?model_type=)", nil)
		return
	}

	design, created, err := h.db.GetOrCreateDesignByTitle(r.Context(), titleForModelType(key), nil)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load design", err)
		return
	}
	if created {
		logging.Ctx(r.Context()).Info().
			Str("model_type", sanitizeLogValue(key)).
			Int64("design_id", design.ID).
			Msg("Created design for model type")
	}

	glbRel := h.designGLBPath(design)
	var imageRel string
	if h.mediaFileExists(design.Thumbnail) {
		imageRel = design.Thumbnail
	}

	detail := &models.ModelTypeDetail{
		Design:       design,
		ModelType:    key,
		Title:        design.Title,
		ImageURL:     mediaURL(imageRel),
		GLBURL:       mediaURL(glbRel),
		HasGLB:       glbRel != "",
		HasThumbnail: imageRel != "",
	}
	if glbRel == "" {
		detail.Message = "No 3D model uploaded for this type yet"
	}
	respondSuccess(w, http.StatusOK, detail)
}

// ListAllModels returns every active design in summary form, unpaginated.
// The catalog holds at most a few dozen designs; the admin tooling wants
// the full list in one call. Public.
func (h *Handler) ListAllModels(w http.ResponseWriter, r *http.Request) {
	designs, _, err := h.db.ListDesigns(r.Context(), database.ListDesignsOptions{ActiveOnly: true})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list models", err)
		return
	}
	respondSuccess(w, http.StatusOK, designs)
}

// DeleteModelByType removes the design behind a model type. Staff or the
// design's creator only.
func (h *Handler) DeleteModelByType(w http.ResponseWriter, r *http.Request) {
	key := modelTypeParam(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Model type parameter required (use ?type= or ?model_type=)", nil)
		return
	}

	design, err := h.db.GetActiveDesignByTitle(r.Context(), titleForModelType(key))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Model type has no design", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load design", err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	isCreator := design.CreatedBy != nil && *design.CreatedBy == claims.UserID
	if !claims.IsStaff && !isCreator {
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "Only staff or the design creator may delete it", nil)
		return
	}

	if err := h.db.DeleteDesign(r.Context(), design.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete design", err)
		return
	}
	h.listings.Invalidate(modelTypesCacheKey)
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Model type " + key + " deleted"})
}

// ConvertGLBToDWG is a deliberate stub: DWG export needs CAD tooling this
// service does not ship. The frontend falls back to downloading the GLB.
func (h *Handler) ConvertGLBToDWG(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GLBURL    string `json:"glb_url" validate:"required"`
		ModelType string `json:"model_type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusNotImplemented, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    "NOT_IMPLEMENTED",
			Message: "GLB to DWG conversion is not implemented; download the GLB and convert with CAD software",
			Details: map[string]interface{}{"glb_url": req.GLBURL},
		},
	})
}
