// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package validation

import (
	"strings"
	"testing"
)

type orderRequest struct {
	DesignID int    `validate:"required,gt=0"`
	Quantity int    `validate:"min=1,max=1000"`
	Email    string `validate:"required,email"`
	Status   string `validate:"omitempty,oneof=pending processing completed cancelled"`
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()

	req := orderRequest{DesignID: 1, Quantity: 2, Email: "buyer@example.com", Status: "pending"}
	if verr := ValidateStruct(&req); verr != nil {
		t.Fatalf("expected valid struct, got: %v", verr)
	}
}

func TestValidateStructSingleError(t *testing.T) {
	t.Parallel()

	req := orderRequest{DesignID: 1, Quantity: 2, Email: "not-an-email"}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation error, got nil")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR code, got %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Email") {
		t.Errorf("expected message about Email, got %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Email" {
		t.Errorf("expected field detail Email, got %v", apiErr.Details["field"])
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	t.Parallel()

	req := orderRequest{Quantity: 0, Email: "", Status: "shipped"}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation errors, got nil")
	}
	if len(verr.Errors()) < 3 {
		t.Fatalf("expected at least 3 field errors, got %d", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected aggregated fields detail for multiple errors")
	}
}

func TestTranslateErrorMessages(t *testing.T) {
	t.Parallel()

	type bounded struct {
		Name string `validate:"min=3"`
	}

	verr := ValidateStruct(&bounded{Name: "ab"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	msg := verr.Errors()[0].Error()
	if !strings.Contains(msg, "at least 3 characters") {
		t.Errorf("expected string min message, got %q", msg)
	}
}
