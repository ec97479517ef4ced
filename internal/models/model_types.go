// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package models

// ModelTypes maps the eight fixed chimney model-type keys to their display
// titles. Designs are looked up by case-insensitive title match among active
// designs; a design is created on demand when a type has none yet.
var ModelTypes = map[string]string{
	"wall_mounted_skin":          "Wall Mounted Single Skin",
	"wall_mounted_single_plenum": "Wall Mounted Single Plenum",
	"wall_mounted_double_skin":   "Wall Mounted Double Skin",
	"wall_mounted_compensating":  "Wall Mounted Compensating",
	"uv_compensating":            "UV Compensating",
	"island_single_skin":         "Island Single Skin",
	"island_double_skin":         "Island Double Skin",
	"island_compensating":        "Island Compensating",
}

// ModelTypeOrder fixes the enumeration order for list endpoints so the
// frontend tile grid is stable across requests.
var ModelTypeOrder = []string{
	"wall_mounted_skin",
	"wall_mounted_single_plenum",
	"wall_mounted_double_skin",
	"wall_mounted_compensating",
	"uv_compensating",
	"island_single_skin",
	"island_double_skin",
	"island_compensating",
}

// ModelTypeTitle returns the display title for a model-type key, or a
// title-cased fallback derived from the key when unknown.
func ModelTypeTitle(key string) (string, bool) {
	title, ok := ModelTypes[key]
	return title, ok
}

// ModelTypeInfo is one entry of the GET /model-types response.
type ModelTypeInfo struct {
	ModelType  string `json:"model_type"`
	Title      string `json:"title"`
	GLBURL     string `json:"glb_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	HasModel   bool   `json:"has_model"`
	HasPreview bool   `json:"has_preview"`
}

// ModelTypeDetail is the GET /models?type= response: the design plus the
// frontend-compatible URL fields.
type ModelTypeDetail struct {
	Design       *Design `json:"design"`
	ModelType    string  `json:"model_type"`
	Title        string  `json:"title"`
	ImageURL     string  `json:"image_url,omitempty"`
	GLBURL       string  `json:"glb_url,omitempty"`
	HasGLB       bool    `json:"has_glb"`
	HasThumbnail bool    `json:"has_thumbnail"`
	Message      string  `json:"message,omitempty"`
}

// UploadResult is the response of the upload endpoints.
type UploadResult struct {
	Path            string `json:"file_path"`
	URL             string `json:"url"`
	GLBFileURL      string `json:"glb_file_url,omitempty"`
	OriginalFileURL string `json:"original_file_url,omitempty"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	FileFormat      string `json:"file_format,omitempty"`
	NeedsConversion bool   `json:"needs_conversion,omitempty"`
	DesignID        int64  `json:"design_id,omitempty"`
	DesignTitle     string `json:"design_title,omitempty"`
	ModelType       string `json:"model_type,omitempty"`
}
