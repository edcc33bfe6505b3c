// In file: internal/version/version.go

// Package version centralizes the versioning for different logical components of the gateway.
//
// This is a simple but effective caching strategy. By including these version
// strings in the answer-cache keys, old cached entries are automatically
// invalidated whenever a piece of underlying logic changes. For example, if a
// tool definition is fixed and Tools is bumped from "v1.0" to "v1.1", cache
// keys containing the old version string will no longer match, forcing the
// gateway to generate fresh answers.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComponentVersions holds the version strings for the logical parts of the
// gateway. Manually increment a version here before deploying a change to
// that component.
var ComponentVersions = struct {
	// Tools should be updated whenever a tool definition or its execution
	// logic changes (the system-details, sections or request-search tools).
	Tools string

	// Filter should be updated whenever the selection-option grammar or its
	// validation rules change, since cached answers embed search results.
	Filter string

	// Prompt should be updated whenever the system prompts or the field
	// glossary change.
	Prompt string
}{
	Tools:  "v1.0",
	Filter: "v1.0",
	Prompt: "v1.0",
}

// GenerateVersionedCacheKey creates a consistent, version-aware key for
// caching final answers.
//
// It combines a prefix, a hash over the conversation parts (the prompt plus
// any prior turns), and the current versions of all logical components, so a
// change to the conversation or any component yields a different key. Parts
// are hashed with a separator so ("ab","c") and ("a","bc") never collide.
//
// Example output: "dlmcache:a1b2c3d4...:tv1.0_fv1.0_pv1.0"
func GenerateVersionedCacheKey(prefix string, parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(part))
		hasher.Write([]byte{0x1e})
	}
	conversationHash := hex.EncodeToString(hasher.Sum(nil))

	versionString := fmt.Sprintf("tv%s_fv%s_pv%s",
		ComponentVersions.Tools,
		ComponentVersions.Filter,
		ComponentVersions.Prompt,
	)

	return fmt.Sprintf("%s:%s:%s", prefix, conversationHash, versionString)
}
