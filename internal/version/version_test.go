// In file: internal/version/version_test.go
package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVersionedCacheKeyIsStable(t *testing.T) {
	a := GenerateVersionedCacheKey("dlmcache", "what is CCF?")
	b := GenerateVersionedCacheKey("dlmcache", "what is CCF?")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "dlmcache:"))
	assert.True(t, strings.HasSuffix(a, "tv1.0_fv1.0_pv1.0"))
}

func TestGenerateVersionedCacheKeyDependsOnEveryPart(t *testing.T) {
	base := GenerateVersionedCacheKey("dlmcache", "user", "tell me about CCF", "what is CCF?")

	differentHistory := GenerateVersionedCacheKey("dlmcache", "user", "tell me about ER1", "what is CCF?")
	assert.NotEqual(t, base, differentHistory, "same prompt with different history must not share a key")

	noHistory := GenerateVersionedCacheKey("dlmcache", "what is CCF?")
	assert.NotEqual(t, base, noHistory)
}

func TestGenerateVersionedCacheKeySeparatesParts(t *testing.T) {
	// Without a separator between parts ("ab","c") and ("a","bc") would hash
	// to the same conversation digest.
	a := GenerateVersionedCacheKey("dlmcache", "ab", "c")
	b := GenerateVersionedCacheKey("dlmcache", "a", "bc")
	assert.NotEqual(t, a, b)
}
