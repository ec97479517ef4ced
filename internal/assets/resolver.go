// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

package assets

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fluecraft/fluecraft/internal/logging"
	"github.com/fluecraft/fluecraft/internal/metrics"
)

// ErrNotFound is returned by Resolve when every fallback pass is exhausted.
var ErrNotFound = errors.New("asset not found")

// Config holds everything the asset layer needs. It is passed explicitly at
// construction; the resolver reads no ambient configuration.
//
// Fields:
//   - MediaRoot: absolute or relative directory all assets live under
//   - AllowedOrigins: origins echoed back by restricted CORS mode
//   - PermissiveCORS: echo any Origin (development mode)
type Config struct {
	MediaRoot      string
	AllowedOrigins []string
	PermissiveCORS bool
}

func (c Config) originAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// Resolver maps requested media paths to files on disk, applying the
// fallback search described in the package documentation.
type Resolver struct {
	cfg  Config
	root string
}

// NewResolver validates cfg and returns a Resolver rooted at cfg.MediaRoot.
// The media root does not have to exist yet; resolution against a missing
// root simply finds nothing.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.MediaRoot == "" {
		return nil, errors.New("assets: media root must not be empty")
	}
	root, err := filepath.Abs(cfg.MediaRoot)
	if err != nil {
		return nil, err
	}
	return &Resolver{cfg: cfg, root: root}, nil
}

// Root returns the absolute media root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the absolute on-disk path for a requested media path, or
// ErrNotFound. requestPath is slash-separated and relative to the media root;
// it must already be URL-decoded. Leading slashes and ".." segments are
// stripped, so a request can never escape the media root.
//
// The passes run in order and the first hit wins:
// exact path, space/underscore and case normalization, pattern relaxation
// (model formats only), progressive shortening with scoring, first-token
// match. Ties between equally scored candidates fall to directory
// enumeration order.
func (r *Resolver) Resolve(ctx context.Context, requestPath string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(requestPath, "\\", "/")), "/")
	if rel == "" || rel == "." {
		return "", ErrNotFound
	}

	direct := filepath.Join(r.root, filepath.FromSlash(rel))
	if fileExists(direct) {
		metrics.RecordAssetResolution("exact")
		return direct, nil
	}

	dirName := path.Dir(rel)
	if dirName == "." {
		dirName = ""
	}
	baseName := path.Base(rel)
	ext := path.Ext(baseName)
	stem := strings.TrimSuffix(baseName, ext)

	// Space-to-underscore drift is the most common mismatch: uploads store
	// underscored names while the database kept the original title. Only
	// worth trying when the replacement actually changes the name.
	if underscored := strings.ReplaceAll(stem, " ", "_"); underscored != stem {
		candidates := []string{
			r.join(dirName, underscored+ext),
			r.join("models/original", underscored+ext),
			r.join(dirName, strings.ToLower(underscored)+ext),
			r.join("models/original", strings.ToLower(underscored)+ext),
		}
		for _, cand := range candidates {
			if fileExists(cand) {
				logging.Ctx(ctx).Info().
					Str("requested", rel).
					Str("resolved", cand).
					Msg("Resolved asset via name normalization")
				metrics.RecordAssetResolution("normalized")
				return cand, nil
			}
		}
	}

	// Relaxed search is only worth the directory walking for model formats,
	// which are the ones the upload pipeline decorates with random suffixes.
	if IsModelExtension(ext) {
		if found := r.relaxedSearch(ctx, rel, dirName, stem, ext); found != "" {
			metrics.RecordAssetResolution("relaxed")
			return found, nil
		}
	}

	r.logMiss(ctx, rel, dirName, ext)
	metrics.RecordAssetResolution("miss")
	return "", ErrNotFound
}

// relaxedSearch handles upload-time hash suffixes and version markers:
// Drawing_ABC_9fk2lq.glb finds Drawing_ABC.glb, WMSS_Single_Skin_5Secs_2.glb
// finds WMSS_Single_Skin*.glb. Returns "" when nothing acceptable is found.
func (r *Resolver) relaxedSearch(ctx context.Context, requested, dirName, stem, ext string) string {
	log := logging.Ctx(ctx)

	searchPattern := strings.ReplaceAll(stem, " ", "_")
	parts := strings.Split(searchPattern, "_")

	// Strip what looks like an upload-time suffix: a short alphanumeric
	// trailing token, or two tokens when the penultimate is a bare number or
	// a "5Secs"-style duration marker.
	basePattern := searchPattern
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		switch {
		case len(last) <= 10 && isAlnum(last):
			basePattern = strings.Join(parts[:len(parts)-1], "_")
		case len(parts) > 2:
			penult := parts[len(parts)-2]
			if isDigits(penult) || strings.Contains(strings.ToLower(penult), "sec") {
				basePattern = strings.Join(parts[:len(parts)-2], "_")
			}
		}
	}

	dirs := r.searchDirs(dirName)
	log.Debug().
		Str("requested", requested).
		Str("base_pattern", basePattern).
		Strs("search_dirs", dirs).
		Msg("Running relaxed asset search")

	patternParts := strings.Split(basePattern, "_")

	for _, dir := range dirs {
		// Pass 1: base pattern as prefix, exact then case-insensitive then
		// with candidate spaces folded to underscores. First hit wins.
		matches := matchPrefix(dir, basePattern, ext, matchExact)
		if len(matches) == 0 {
			matches = matchPrefix(dir, basePattern, ext, matchFold)
		}
		if len(matches) == 0 {
			matches = matchPrefix(dir, basePattern, ext, matchFoldSpaces)
		}
		if len(matches) > 0 {
			log.Info().
				Str("requested", requested).
				Str("resolved", matches[0]).
				Msg("Resolved asset via relaxed pattern")
			return matches[0]
		}

		// Pass 2: progressively shorter prefixes. Multiple candidates are
		// scored by token overlap plus length similarity.
		for i := len(patternParts) - 1; i >= 1; i-- {
			shorter := strings.Join(patternParts[:i], "_")
			shorterMatches := matchPrefix(dir, shorter, ext, matchExact)
			if len(shorterMatches) == 0 {
				continue
			}
			if best := bestByTokensAndLength(shorterMatches, patternParts, stem); best != "" {
				log.Info().
					Str("requested", requested).
					Str("resolved", best).
					Str("pattern", shorter).
					Msg("Resolved asset via shortened pattern")
				return best
			}
		}

		// Pass 3: first token only. Guard against wild mismatches by
		// requiring at least two of the original tokens in the winner.
		firstMatches := matchPrefix(dir, parts[0], ext, matchExact)
		if len(firstMatches) > 0 {
			if best, score := bestByTokens(firstMatches, parts); score >= 2 {
				log.Info().
					Str("requested", requested).
					Str("resolved", best).
					Int("token_matches", score).
					Msg("Resolved asset via first-token pattern")
				return best
			}
		}
	}
	return ""
}

// searchDirs builds the ordered, deduplicated list of existing directories to
// search: the request directory, the conventional model directories (legacy
// uploads live in models/original/), the media root, and every subdirectory
// of the model tree.
func (r *Resolver) searchDirs(dirName string) []string {
	var locations []string
	if dirName != "" {
		locations = append(locations, r.dir(dirName))
	}
	switch {
	case dirName == "models/original":
		locations = append(locations, r.dir("models"), r.dir("models/original"))
	case strings.Contains(dirName, "models"):
		locations = append(locations, r.dir("models/original"), r.dir("models"))
	}
	locations = append(locations, r.root)

	modelsDir := r.dir("models")
	_ = filepath.WalkDir(modelsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			locations = append(locations, p)
		}
		return nil
	})

	seen := make(map[string]bool, len(locations))
	dirs := locations[:0]
	for _, loc := range locations {
		if seen[loc] || !dirExists(loc) {
			continue
		}
		seen[loc] = true
		dirs = append(dirs, loc)
	}
	return dirs
}

func (r *Resolver) logMiss(ctx context.Context, rel, dirName, ext string) {
	log := logging.Ctx(ctx)
	log.Warn().
		Str("path", rel).
		Str("media_root", r.root).
		Msg("Asset not found after fallback search")

	// Listing a few same-extension siblings makes stored-path drift obvious
	// in the logs without anyone having to shell into the media volume.
	if siblings := sameExtSiblings(r.dir(dirName), ext); len(siblings) > 0 {
		log.Info().
			Str("dir", dirName).
			Strs("available", siblings).
			Msg("Same-extension files in requested directory")
	}
	if dirName != "models/original" {
		if siblings := sameExtSiblings(r.dir("models/original"), ext); len(siblings) > 0 {
			log.Info().
				Str("dir", "models/original").
				Strs("available", siblings).
				Msg("Same-extension files in models/original")
		}
	}
}

// join returns the absolute path of name inside dirName under the media root.
func (r *Resolver) join(dirName, name string) string {
	if dirName == "" {
		return filepath.Join(r.root, name)
	}
	return filepath.Join(r.root, filepath.FromSlash(dirName), name)
}

func (r *Resolver) dir(dirName string) string {
	if dirName == "" {
		return r.root
	}
	return filepath.Join(r.root, filepath.FromSlash(dirName))
}

// matchMode controls how matchPrefix compares candidate names.
type matchMode int

const (
	matchExact      matchMode = iota // case-sensitive
	matchFold                        // case-insensitive
	matchFoldSpaces                  // case-insensitive with spaces folded to underscores
)

// matchPrefix returns the files in dir whose name starts with prefix and ends
// with ext, as absolute paths in directory enumeration order. Prefixes are
// compared literally; glob metacharacters in requested names have no special
// meaning.
func matchPrefix(dir, prefix, ext string, mode matchMode) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	wantPrefix, wantExt := prefix, ext
	if mode != matchExact {
		wantPrefix = strings.ToLower(prefix)
		wantExt = strings.ToLower(ext)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		cand := name
		switch mode {
		case matchFold:
			cand = strings.ToLower(cand)
		case matchFoldSpaces:
			cand = strings.ReplaceAll(strings.ToLower(cand), " ", "_")
		}
		if strings.HasPrefix(cand, wantPrefix) && strings.HasSuffix(cand, wantExt) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

// bestByTokensAndLength picks the candidate containing the most tokens as
// substrings, with a bonus of up to 10 for names close in length to the
// requested stem. A zero score never wins. Ties keep the earlier candidate.
func bestByTokensAndLength(matches, tokens []string, stem string) string {
	best, bestScore := "", 0
	for _, m := range matches {
		name := filepath.Base(m)
		score := countTokens(name, tokens)
		diff := len(name) - len(stem)
		if diff < 0 {
			diff = -diff
		}
		if diff < 10 {
			score += 10 - diff
		}
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}

// bestByTokens picks the candidate containing the most tokens as substrings
// and returns it with its score. Ties keep the earlier candidate.
func bestByTokens(matches, tokens []string) (string, int) {
	best, bestScore := "", 0
	for _, m := range matches {
		score := countTokens(filepath.Base(m), tokens)
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, bestScore
}

func countTokens(name string, tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			n++
		}
	}
	return n
}

// sameExtSiblings lists up to five files in dir sharing ext.
func sameExtSiblings(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		out = append(out, e.Name())
		if len(out) == 5 {
			break
		}
	}
	return out
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
