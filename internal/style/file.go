package style

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// FileName is the project style file looked up from the formatted file upwards.
const FileName = ".scadfmt.toml"

// Override applies Settings to files whose path relative to the project root
// matches Pattern.
type Override struct {
	Pattern  string
	Settings Settings
}

// ProjectFile is a decoded .scadfmt.toml.
type ProjectFile struct {
	Path      string
	Root      string
	Settings  Settings
	Overrides []Override
}

// FindFile walks up from startDir to locate .scadfmt.toml.
func FindFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile decodes and validates a style file.
func LoadFile(p string) (*ProjectFile, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	pf, err := Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	pf.Path = abs
	pf.Root = filepath.Dir(abs)
	return pf, nil
}

// Discover finds and loads the style file governing the file at p.
// ok is false when there is none.
func Discover(p string) (*ProjectFile, bool, error) {
	found, ok, err := FindFile(filepath.Dir(p))
	if err != nil || !ok {
		return nil, ok, err
	}
	pf, err := LoadFile(found)
	if err != nil {
		return nil, true, err
	}
	return pf, true, nil
}

// Decode parses style TOML. Top-level keys are options; [[override]]
// tables carry a pattern plus options.
func Decode(data string) (*ProjectFile, error) {
	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	pf := &ProjectFile{Settings: Settings{}}
	for k, v := range raw {
		if k != "override" {
			pf.Settings[k] = v
			continue
		}
		tables, ok := v.([]map[string]any)
		if !ok {
			return nil, &ConfigurationError{Option: "override", Reason: "expected [[override]] tables"}
		}
		for i, t := range tables {
			pat, _ := t["pattern"].(string)
			if strings.TrimSpace(pat) == "" {
				return nil, &ConfigurationError{Option: "override", Reason: fmt.Sprintf("table %d: missing pattern", i+1)}
			}
			if !doublestar.ValidatePattern(pat) {
				return nil, &ConfigurationError{Option: "override", Value: pat, Reason: "bad pattern"}
			}
			ov := Override{Pattern: pat, Settings: Settings{}}
			for name, val := range t {
				if name != "pattern" {
					ov.Settings[name] = val
				}
			}
			if err := Validate(ov.Settings); err != nil {
				return nil, err
			}
			pf.Overrides = append(pf.Overrides, ov)
		}
	}
	if err := Validate(pf.Settings); err != nil {
		return nil, err
	}
	return pf, nil
}

// SettingsFor merges the base settings with every override matching file, in file order.
func (pf *ProjectFile) SettingsFor(file string) Settings {
	out := pf.Settings.Merge(nil)
	rel := file
	if pf.Root != "" {
		if abs, err := filepath.Abs(file); err == nil {
			if r, err := filepath.Rel(pf.Root, abs); err == nil {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	for _, ov := range pf.Overrides {
		if MatchPattern(ov.Pattern, rel) {
			out = out.Merge(ov.Settings)
		}
	}
	return out
}

// MatchPattern matches a slash separated path against a doublestar glob
// (`**` spans directories, `{a,b}` alternates). A pattern without '/'
// matches the base name.
func MatchPattern(pattern, name string) bool {
	if !strings.Contains(pattern, "/") {
		name = path.Base(name)
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// Encode writes c as TOML. With full=false only non-default options are written.
func Encode(w io.Writer, c Config, full bool) error {
	s := c.Diff()
	if full {
		s = c.Settings()
	}
	return toml.NewEncoder(w).Encode(map[string]any(s))
}

// Save writes the full configuration to p.
func Save(p string, c Config) error {
	var b strings.Builder
	if err := Encode(&b, c, true); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(b.String()), 0o644)
}
