// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package assets

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fluecraft/fluecraft/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetLogger(logging.NewTestLogger(io.Discard))
	os.Exit(m.Run())
}

// writeAsset creates rel (slash-separated) under root with parent dirs.
func writeAsset(t *testing.T, root, rel string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte("data:"+rel), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()
	r, err := NewResolver(Config{MediaRoot: root, PermissiveCORS: true})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r, root
}

func TestNewResolverRequiresMediaRoot(t *testing.T) {
	t.Parallel()

	if _, err := NewResolver(Config{}); err == nil {
		t.Fatal("expected error for empty media root")
	}
}

func TestResolveExactPath(t *testing.T) {
	t.Parallel()

	r, root := newTestResolver(t)
	want := writeAsset(t, root, "models/Chimney_Base.glb")

	got, err := r.Resolve(context.Background(), "models/Chimney_Base.glb")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Errorf("resolved %q, want %q", got, want)
	}
}

func TestResolveNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		onDisk  string
		request string
	}{
		{
			name:    "spaces to underscores in same directory",
			onDisk:  "models/My_Model.glb",
			request: "models/My Model.glb",
		},
		{
			name:    "spaces to underscores in models/original",
			onDisk:  "models/original/Legacy_Design.glb",
			request: "thumbnails/Legacy Design.glb",
		},
		{
			name:    "lowercase underscored in same directory",
			onDisk:  "models/my_model.glb",
			request: "models/My Model.glb",
		},
		{
			name:    "lowercase underscored in models/original",
			onDisk:  "models/original/old_design.glb",
			request: "images/Old Design.glb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, root := newTestResolver(t)
			want := writeAsset(t, root, tt.onDisk)

			got, err := r.Resolve(context.Background(), tt.request)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.request, err)
			}
			if got != want {
				t.Errorf("resolved %q, want %q", got, want)
			}
		})
	}
}

func TestResolveRelaxation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		onDisk  []string
		request string
		want    string
	}{
		{
			name:    "upload hash suffix stripped",
			onDisk:  []string{"models/Drawing_ABC.glb"},
			request: "models/Drawing_ABC_9fk2lq.glb",
			want:    "models/Drawing_ABC.glb",
		},
		{
			name:    "found in models/original",
			onDisk:  []string{"models/original/GA_Drawing_DS2_Date_201023041758.glb"},
			request: "models/GA_Drawing_DS2_Date_201023041758_XYZ123.glb",
			want:    "models/original/GA_Drawing_DS2_Date_201023041758.glb",
		},
		{
			name:    "duration marker and version stripped together",
			onDisk:  []string{"models/WMSS_Single_Skin_5Secs_Final.glb"},
			request: "models/WMSS_Single_Skin_5Secs_2_extralongtail.glb",
			want:    "models/WMSS_Single_Skin_5Secs_Final.glb",
		},
		{
			name:    "case-insensitive prefix match",
			onDisk:  []string{"models/chimney_base.glb"},
			request: "models/CHIMNEY_BASE_X1.glb",
			want:    "models/chimney_base.glb",
		},
		{
			name:    "candidate spaces folded to underscores",
			onDisk:  []string{"models/My Model.glb"},
			request: "models/My_Model_Z9.glb",
			want:    "models/My Model.glb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, root := newTestResolver(t)
			var want string
			for _, rel := range tt.onDisk {
				p := writeAsset(t, root, rel)
				if rel == tt.want {
					want = p
				}
			}

			got, err := r.Resolve(context.Background(), tt.request)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.request, err)
			}
			if got != want {
				t.Errorf("resolved %q, want %q", got, want)
			}
		})
	}
}

func TestResolveShorteningPrefersBestScore(t *testing.T) {
	t.Parallel()

	r, root := newTestResolver(t)
	writeAsset(t, root, "models/WMSS_Single_Arm.glb")
	// Same token count but closer in length to the request, so it wins the
	// length-similarity bonus.
	want := writeAsset(t, root, "models/WMSS_Single_Skin.glb")

	got, err := r.Resolve(context.Background(), "models/WMSS_Single_Powder_7.glb")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Errorf("resolved %q, want %q", got, want)
	}
}

func TestResolveMisses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		onDisk  []string
		request string
	}{
		{
			name:    "nothing on disk",
			request: "models/Missing.glb",
		},
		{
			name:    "no relaxation for raster images",
			onDisk:  []string{"thumbnails/pic_ABC.png"},
			request: "thumbnails/pic_ABC_XYZ12.png",
		},
		{
			name:    "empty path",
			request: "",
		},
		{
			name:    "unrelated model file does not match",
			onDisk:  []string{"models/Totally_Different.glb"},
			request: "models/Island_Compensating_X9.glb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, root := newTestResolver(t)
			for _, rel := range tt.onDisk {
				writeAsset(t, root, rel)
			}

			if _, err := r.Resolve(context.Background(), tt.request); !errors.Is(err, ErrNotFound) {
				t.Errorf("Resolve(%q) err = %v, want ErrNotFound", tt.request, err)
			}
		})
	}
}

func TestResolveNeverEscapesRoot(t *testing.T) {
	t.Parallel()

	r, root := newTestResolver(t)
	// A file outside the media root with a tempting name.
	outside := filepath.Join(filepath.Dir(root), "secret.glb")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() { os.Remove(outside) })

	for _, req := range []string{
		"../secret.glb",
		"models/../../secret.glb",
		"/../secret.glb",
	} {
		got, err := r.Resolve(context.Background(), req)
		if err == nil && !strings.HasPrefix(got, root+string(filepath.Separator)) {
			t.Errorf("Resolve(%q) escaped media root: %q", req, got)
		}
	}
}

func TestMatchPrefixModes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"Alpha_Beta.glb", "alpha_beta_v2.glb", "Alpha Beta Gamma.glb", "other.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if got := matchPrefix(dir, "Alpha_Beta", ".glb", matchExact); len(got) != 1 {
		t.Errorf("exact mode matched %d files, want 1", len(got))
	}
	if got := matchPrefix(dir, "ALPHA_beta", ".glb", matchFold); len(got) != 2 {
		t.Errorf("fold mode matched %d files, want 2", len(got))
	}
	if got := matchPrefix(dir, "alpha_beta", ".glb", matchFoldSpaces); len(got) != 3 {
		t.Errorf("fold-spaces mode matched %d files, want 3", len(got))
	}
}

func TestBestByTokensAndLength(t *testing.T) {
	t.Parallel()

	matches := []string{"/m/AA_BB_zzzzzzzzzzzzzzzz.glb", "/m/AA_BB_CC.glb"}
	tokens := []string{"AA", "BB", "CC"}

	if got := bestByTokensAndLength(matches, tokens, "AA_BB_CC_99"); got != "/m/AA_BB_CC.glb" {
		t.Errorf("best = %q, want AA_BB_CC.glb", got)
	}
	// No token overlap and far-off length yields no winner.
	if got := bestByTokensAndLength([]string{"/m/" + strings.Repeat("x", 40) + ".glb"}, []string{"QQ"}, "short"); got != "" {
		t.Errorf("expected no winner, got %q", got)
	}
}

func TestBestByTokensThreshold(t *testing.T) {
	t.Parallel()

	best, score := bestByTokens([]string{"/m/AA_CC.glb", "/m/AA_BB_CC.glb"}, []string{"AA", "BB", "CC"})
	if best != "/m/AA_BB_CC.glb" || score != 3 {
		t.Errorf("best = %q score %d, want AA_BB_CC.glb with 3", best, score)
	}
}

func TestTokenClassifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s      string
		alnum  bool
		digits bool
	}{
		{"XYZ123", true, false},
		{"2", true, true},
		{"9fk2lq", true, false},
		{"", false, false},
		{"has-dash", false, false},
	}
	for _, tt := range tests {
		if got := isAlnum(tt.s); got != tt.alnum {
			t.Errorf("isAlnum(%q) = %v, want %v", tt.s, got, tt.alnum)
		}
		if got := isDigits(tt.s); got != tt.digits {
			t.Errorf("isDigits(%q) = %v, want %v", tt.s, got, tt.digits)
		}
	}
}
