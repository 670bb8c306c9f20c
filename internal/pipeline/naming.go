package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// nameRegistry hands out unique output base paths. Keys are case-folded so
// inputs that differ only by letter case cannot silently overwrite each
// other on case-insensitive output filesystems.
type nameRegistry struct {
	claimed map[string]struct{}
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{claimed: make(map[string]struct{})}
}

// Claim reserves base, or base-1, base-2, ... when base is already taken.
// Callers claim in enumeration order, which makes the assignment
// deterministic for a fixed directory state.
func (r *nameRegistry) Claim(base string) string {
	candidate := base
	for i := 1; ; i++ {
		key := strings.ToLower(filepath.ToSlash(candidate))
		if _, taken := r.claimed[key]; !taken {
			r.claimed[key] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// outBase maps an input's relative path to its output base path: the
// relative structure is preserved and the extension dropped. The final
// .jpg or .pdf extension is appended by the converter.
func outBase(outputDir, relPath string) string {
	trimmed := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return filepath.Join(outputDir, trimmed)
}
