package diagfmt

import (
	"path/filepath"
	"strings"

	"scadfmt/internal/source"
)

// autoPathLimit: in PathModeAuto absolute paths longer than this show only the base name.
const autoPathLimit = 48

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "<unknown>"
	}
	if f.Flags&source.FileVirtual != 0 && !strings.ContainsRune(f.Path, filepath.Separator) && !strings.Contains(f.Path, "/") {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		abs := f.Path
		if a, err := filepath.Abs(f.Path); err == nil {
			abs = a
		}
		return source.RelativePath(abs, baseDir)
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		if baseDir != "" && filepath.IsAbs(f.Path) {
			if rel := source.RelativePath(f.Path, baseDir); !strings.HasPrefix(rel, "..") && rel != f.Path {
				return rel
			}
		}
		if filepath.IsAbs(f.Path) && len(f.Path) > autoPathLimit {
			return filepath.Base(f.Path)
		}
		return f.Path
	}
}
