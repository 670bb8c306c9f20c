package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimAppendsCounterOnCollision(t *testing.T) {
	r := newNameRegistry()

	assert.Equal(t, "out/scan", r.Claim("out/scan"))
	assert.Equal(t, "out/scan-1", r.Claim("out/scan"))
	assert.Equal(t, "out/scan-2", r.Claim("out/scan"))
	assert.Equal(t, "out/other", r.Claim("out/other"))
}

func TestClaimIsCaseFolded(t *testing.T) {
	r := newNameRegistry()

	assert.Equal(t, "out/Scan", r.Claim("out/Scan"))
	// Same name in a different case would overwrite on a case-insensitive
	// filesystem, so it gets a counter.
	assert.Equal(t, "out/scan-1", r.Claim("out/scan"))
}

func TestClaimIsDeterministic(t *testing.T) {
	claim := func() []string {
		r := newNameRegistry()
		return []string{r.Claim("a/x"), r.Claim("a/x"), r.Claim("b/x")}
	}
	assert.Equal(t, claim(), claim())
}

func TestOutBase(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "a"), outBase("out", "a.dcm"))
	assert.Equal(t, filepath.Join("out", "s1", "img"), outBase("out", filepath.Join("s1", "img.DCM")))
	assert.Equal(t, filepath.Join("out", "noext"), outBase("out", "noext"))
}
