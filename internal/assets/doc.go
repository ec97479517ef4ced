// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

/*
Package assets locates and serves media files under the configured media
root, tolerating the naming drift the upload pipeline introduces.

Uploaded model files get UUID-prefixed names, re-uploads append random
suffixes, admin tooling swaps spaces for underscores, and legacy files live
in models/original/ while current ones live in models/. A stored path in the
database therefore frequently does not match any file on disk exactly. The
Resolver performs a best-effort, ordered fallback search:

 1. Exact path under the media root.
 2. Space-to-underscore and lowercase variants, in the request directory and
    the legacy models/original/ directory.
 3. For model formats only: pattern relaxation. A trailing underscore token
    that looks like an upload-time hash or version suffix is stripped, and
    the shortened base pattern is globbed across the request directory, the
    conventional model directories, the media root, and every subdirectory
    of the model tree.
 4. Progressive shortening of the pattern, scoring candidates by token
    overlap and length similarity.
 5. A first-token glob requiring at least two original tokens in any
    accepted match.

Resolution is stateless and request-scoped: no cache, no locking, no
de-duplication of concurrent identical lookups. Ties between equally scored
candidates fall to directory enumeration order, which is implementation
defined and not guaranteed stable across operating systems.

The Handler streams resolved files with the correct Content-Type, range
support and CORS headers for the frontend 3D viewer. The not-found response
format (JSON envelope vs. plain text) is an explicit parameter chosen by the
routing layer, never inferred from request headers.
*/
package assets
