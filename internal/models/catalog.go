// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

// Package models defines the domain types shared by the database, API and
// asset layers: catalog entities (categories, designs, projects, orders),
// upload records, users and the JSON response envelope.
package models

import (
	"time"
)

// Category groups chimney designs. Listed alphabetically by name.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Design is a 3D chimney design in the catalog.
//
// ModelFile and OriginalFile are media-root-relative paths ("models/X.glb",
// "models/original/X.glb"). The asset resolver tolerates drift between these
// stored paths and the actual on-disk names; see the assets package.
//
// Transform holds the viewer placement applied by the frontend before the
// user adjusts anything.
type Design struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"category_id,omitempty"`

	ModelFile          string                 `json:"model_file,omitempty"`
	OriginalFile       string                 `json:"original_file,omitempty"`
	OriginalFileFormat string                 `json:"original_file_format,omitempty" validate:"omitempty,oneof=GLB GLTF STP STEP"`
	ModelData          map[string]interface{} `json:"model_data,omitempty"`

	// Dimensions in meters.
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
	Depth  float64 `json:"depth" validate:"gte=0"`

	Transform Transform `json:"transform"`

	MaterialType string  `json:"material_type,omitempty"`
	Color        string  `json:"color,omitempty"`
	Price        float64 `json:"price" validate:"gte=0"`

	Thumbnail string `json:"thumbnail,omitempty"`

	IsFeatured bool   `json:"is_featured"`
	IsActive   bool   `json:"is_active"`
	CreatedBy  *int64 `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transform is the initial 3D placement of a design in the viewer.
// Rotations are degrees; scale defaults to 1.0 on each axis.
type Transform struct {
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	PositionZ float64 `json:"position_z"`
	RotationX float64 `json:"rotation_x"`
	RotationY float64 `json:"rotation_y"`
	RotationZ float64 `json:"rotation_z"`
	ScaleX    float64 `json:"scale_x"`
	ScaleY    float64 `json:"scale_y"`
	ScaleZ    float64 `json:"scale_z"`
}

// DefaultTransform returns the identity placement.
func DefaultTransform() Transform {
	return Transform{ScaleX: 1.0, ScaleY: 1.0, ScaleZ: 1.0}
}

// DesignSummary is the reduced shape used by list endpoints. Detail
// endpoints return the full Design.
type DesignSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	CategoryID   *int64    `json:"category_id,omitempty"`
	ModelFile    string    `json:"model_file,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	MaterialType string    `json:"material_type,omitempty"`
	Price        float64   `json:"price"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
}

// Project is a user's saved 3D chimney configuration.
// DesignData and ModelData carry opaque frontend JSON blobs.
type Project struct {
	ID           int64                  `json:"id"`
	UserID       int64                  `json:"user_id"`
	Name         string                 `json:"name" validate:"required,max=200"`
	Description  string                 `json:"description"`
	DesignData   map[string]interface{} `json:"design_data,omitempty"`
	ModelData    map[string]interface{} `json:"model_data,omitempty"`
	BaseDesignID *int64                 `json:"base_design_id,omitempty"`
	Thumbnail    string                 `json:"thumbnail,omitempty"`
	IsPublic     bool                   `json:"is_public"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is a purchase of a design, optionally referencing the user's project.
type Order struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	DesignID  *int64 `json:"design_id,omitempty" validate:"omitempty,gt=0"`
	ProjectID *int64 `json:"project_id,omitempty" validate:"omitempty,gt=0"`

	Quantity   int     `json:"quantity" validate:"min=1,max=1000"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`

	CustomerName    string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail   string `json:"customer_email" validate:"required,email"`
	CustomerPhone   string `json:"customer_phone" validate:"max=20"`
	ShippingAddress string `json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=200"`
	Email     string    `json:"email" validate:"required,email"`
	Subject   string    `json:"subject" validate:"required,max=200"`
	Message   string    `json:"message" validate:"required"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// DesignFile types.
const (
	FileTypeModel    = "model"
	FileTypeOriginal = "original"
)

// DesignFile records one uploaded model file attached to a design. A design
// can carry several files; IsPrimary marks the one the 3D viewer loads.
type DesignFile struct {
	ID           int64     `json:"id"`
	DesignID     int64     `json:"design_id"`
	Path         string    `json:"path"`
	FileType     string    `json:"file_type" validate:"oneof=model original"`
	FileName     string    `json:"file_name"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// User is an account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

// Stats summarizes a user's activity plus the catalog size.
type Stats struct {
	ProjectsCount int `json:"projects_count"`
	OrdersCount   int `json:"orders_count"`
	DesignsCount  int `json:"designs_count"`
}
