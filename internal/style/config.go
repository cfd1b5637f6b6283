package style

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Settings maps option names to raw values; it is what users write.
type Settings map[string]any

// Merge returns a copy of s overlaid with the entries of other.
func (s Settings) Merge(other Settings) Settings {
	out := make(Settings, len(s)+len(other))
	maps.Copy(out, s)
	maps.Copy(out, other)
	return out
}

// Config is the validated style. Treat it as a value: build it with New or
// With, never mutate a Config another component holds.
type Config struct {
	IndentSize                     int
	UseTabs                        bool
	IndentCascadingTransformations bool
	BlankLinesMax                  int
	BracePlacement                 BracePlacement
	SpaceAroundOperators           bool
	SpaceAroundAssignment          bool
	SpaceAfterComma                bool
	SpaceAfterKeyword              bool
	InsertFinalNewline             bool
	LineEnding                     LineEnding
}

// Default returns the configuration with every option at its default.
func Default() Config {
	var c Config
	for _, o := range options {
		o.set(&c, o.Default)
	}
	return c
}

// New validates settings on top of the defaults.
func New(settings Settings) (Config, error) {
	return Default().With(settings)
}

// Validate reports the first invalid entry of settings, in option name order.
func Validate(settings Settings) error {
	_, err := New(settings)
	return err
}

// With returns a copy of c with settings applied.
func (c Config) With(settings Settings) (Config, error) {
	out := c
	for _, name := range slices.Sorted(maps.Keys(settings)) {
		o, ok := Lookup(name)
		if !ok {
			return Config{}, &ConfigurationError{Option: name, Value: settings[name], Reason: "unknown option"}
		}
		v, err := o.coerce(settings[name])
		if err != nil {
			return Config{}, err
		}
		o.set(&out, v)
	}
	return out, nil
}

// Settings returns every option with its current value.
func (c Config) Settings() Settings {
	out := make(Settings, len(options))
	for _, o := range options {
		out[o.Name] = o.get(c)
	}
	return out
}

// Diff returns the options whose value differs from the defaults.
func (c Config) Diff() Settings {
	def := Default()
	out := Settings{}
	for _, o := range options {
		if v := o.get(c); v != o.get(def) {
			out[o.Name] = v
		}
	}
	return out
}

// IndentUnit is the text of one indentation level.
func (c Config) IndentUnit() string {
	if c.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", c.IndentSize)
}

// EOL returns the line terminator for a file; hadCRLF tells what the file uses.
func (c Config) EOL(hadCRLF bool) string {
	switch c.LineEnding {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingLF:
		return "\n"
	}
	if hadCRLF {
		return "\r\n"
	}
	return "\n"
}

// Fingerprint identifies the configuration in caches.
func (c Config) Fingerprint() string {
	h := sha256.New()
	for _, o := range options {
		fmt.Fprintf(h, "%s=%v\n", o.Name, o.get(c))
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func (c Config) String() string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		parts = append(parts, fmt.Sprintf("%s=%v", o.Name, o.get(c)))
	}
	return strings.Join(parts, " ")
}

func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(c.Settings()))
}

func (c *Config) UnmarshalJSON(data []byte) error {
	s, err := ParseJSON(data)
	if err != nil {
		return err
	}
	cfg, err := New(s)
	if err != nil {
		return err
	}
	*c = cfg
	return nil
}

// ParseJSON decodes a JSON object of settings; null members are dropped.
func ParseJSON(data []byte) (Settings, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("style settings: %w", err)
	}
	out := make(Settings, len(raw))
	for k, v := range raw {
		if v != nil {
			out[k] = v
		}
	}
	return out, nil
}
