// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package assets

import (
	"mime"
	"path/filepath"
	"strings"
)

// contentTypes overrides mime.TypeByExtension for the formats the catalog
// serves. GLB must be model/gltf-binary or the frontend viewer rejects it;
// several CAD formats have no registered MIME type at all.
var contentTypes = map[string]string{
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
	".stp":  "application/octet-stream",
	".step": "application/octet-stream",
	".stl":  "application/octet-stream",
	".obj":  "application/octet-stream",
	".fbx":  "application/octet-stream",
	".3ds":  "application/octet-stream",
	".dwg":  "application/acad",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// modelExtensions are the binary model/CAD formats. They gate the pattern
// relaxation in the resolver and get inline Content-Disposition plus explicit
// range support when served.
var modelExtensions = map[string]bool{
	".glb":  true,
	".gltf": true,
	".stp":  true,
	".step": true,
	".stl":  true,
	".obj":  true,
	".fbx":  true,
	".3ds":  true,
	".dwg":  true,
}

// ContentTypeFor returns the Content-Type to serve a file as, based on its
// extension. Unknown extensions fall back to the platform MIME database and
// finally to application/octet-stream.
func ContentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsModelExtension reports whether ext (with leading dot, any case) is one of
// the model/CAD formats.
func IsModelExtension(ext string) bool {
	return modelExtensions[strings.ToLower(ext)]
}
