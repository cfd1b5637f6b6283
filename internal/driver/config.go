package driver

import (
	"fmt"
	"path/filepath"
	"sync"

	"scadfmt/internal/style"
)

// StyleResolver picks the style of each file: the nearest .scadfmt.toml (or
// an explicit config file), its overrides matching the file, then the
// command line settings. Project files are read once per directory.
type StyleResolver struct {
	// ConfigPath, when set, replaces discovery.
	ConfigPath string
	// Settings from the command line; applied last.
	Settings style.Settings
	// NoDiscovery skips looking for project files.
	NoDiscovery bool

	mu       sync.Mutex
	explicit *style.ProjectFile
	byDir    map[string]*style.ProjectFile
}

// Resolve returns the configuration for path.
func (r *StyleResolver) Resolve(path string) (style.Config, error) {
	pf, err := r.project(path)
	if err != nil {
		return style.Config{}, err
	}
	settings := style.Settings{}
	if pf != nil {
		settings = pf.SettingsFor(path)
	}
	cfg, err := style.New(settings.Merge(r.Settings))
	if err != nil {
		if pf != nil {
			return style.Config{}, fmt.Errorf("%s: %w", pf.Path, err)
		}
		return style.Config{}, err
	}
	return cfg, nil
}

func (r *StyleResolver) resolve(path string) (style.Config, error) {
	if r == nil {
		return style.Default(), nil
	}
	return r.Resolve(path)
}

func (r *StyleResolver) project(path string) (*style.ProjectFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ConfigPath != "" {
		if r.explicit == nil {
			pf, err := style.LoadFile(r.ConfigPath)
			if err != nil {
				return nil, err
			}
			r.explicit = pf
		}
		return r.explicit, nil
	}
	if r.NoDiscovery {
		return nil, nil
	}
	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if r.byDir == nil {
		r.byDir = make(map[string]*style.ProjectFile)
	}
	if pf, ok := r.byDir[dir]; ok {
		return pf, nil
	}
	found, ok, err := style.FindFile(dir)
	if err != nil {
		return nil, err
	}
	var pf *style.ProjectFile
	if ok {
		pf, err = style.LoadFile(found)
		if err != nil {
			return nil, err
		}
	}
	r.byDir[dir] = pf
	return pf, nil
}
