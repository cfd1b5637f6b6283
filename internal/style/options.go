package style

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ValueType is the type of an option value.
type ValueType uint8

const (
	TypeInt ValueType = iota
	TypeBool
	TypeEnum
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeEnum:
		return "enum"
	default:
		return "?"
	}
}

// BracePlacement decides where '{' of a block goes.
type BracePlacement string

const (
	SameLine BracePlacement = "SAME_LINE"
	NextLine BracePlacement = "NEXT_LINE"
)

// LineEnding selects the output line terminator.
type LineEnding string

const (
	LineEndingAuto LineEnding = "auto"
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
)

// Option names.
const (
	OptIndentSize                     = "indentSize"
	OptUseTabs                        = "useTabs"
	OptIndentCascadingTransformations = "indentCascadingTransformations"
	OptBlankLinesMax                  = "blankLinesMax"
	OptBracePlacement                 = "bracePlacement"
	OptSpaceAroundOperators           = "spaceAroundOperators"
	OptSpaceAroundAssignment          = "spaceAroundAssignment"
	OptSpaceAfterComma                = "spaceAfterComma"
	OptSpaceAfterKeyword              = "spaceAfterKeyword"
	OptInsertFinalNewline             = "insertFinalNewline"
	OptLineEnding                     = "lineEnding"
)

// Option describes one entry of the closed option set.
type Option struct {
	Name    string
	Type    ValueType
	Default any
	// Min/Max bound TypeInt options.
	Min, Max int
	// Values lists TypeEnum members.
	Values []string
	Doc    string

	set func(*Config, any)
	get func(Config) any
}

var options = []Option{
	{
		Name: OptIndentSize, Type: TypeInt, Default: 4, Min: 0, Max: 16,
		Doc: "spaces per indentation level",
		set: func(c *Config, v any) { c.IndentSize = v.(int) },
		get: func(c Config) any { return c.IndentSize },
	},
	{
		Name: OptUseTabs, Type: TypeBool, Default: false,
		Doc: "indent with one tab per level",
		set: func(c *Config, v any) { c.UseTabs = v.(bool) },
		get: func(c Config) any { return c.UseTabs },
	},
	{
		Name: OptIndentCascadingTransformations, Type: TypeBool, Default: true,
		Doc: "put every chained transformation on its own, deeper indented line",
		set: func(c *Config, v any) { c.IndentCascadingTransformations = v.(bool) },
		get: func(c Config) any { return c.IndentCascadingTransformations },
	},
	{
		Name: OptBlankLinesMax, Type: TypeInt, Default: 2, Min: 0, Max: 10,
		Doc: "maximum consecutive blank lines kept between items",
		set: func(c *Config, v any) { c.BlankLinesMax = v.(int) },
		get: func(c Config) any { return c.BlankLinesMax },
	},
	{
		Name: OptBracePlacement, Type: TypeEnum, Default: string(SameLine),
		Values: []string{string(SameLine), string(NextLine)},
		Doc:    "position of '{' relative to the block header",
		set:    func(c *Config, v any) { c.BracePlacement = BracePlacement(v.(string)) },
		get:    func(c Config) any { return string(c.BracePlacement) },
	},
	{
		Name: OptSpaceAroundOperators, Type: TypeBool, Default: true,
		Doc: "surround binary operators with spaces",
		set: func(c *Config, v any) { c.SpaceAroundOperators = v.(bool) },
		get: func(c Config) any { return c.SpaceAroundOperators },
	},
	{
		Name: OptSpaceAroundAssignment, Type: TypeBool, Default: true,
		Doc: "surround '=' with spaces",
		set: func(c *Config, v any) { c.SpaceAroundAssignment = v.(bool) },
		get: func(c Config) any { return c.SpaceAroundAssignment },
	},
	{
		Name: OptSpaceAfterComma, Type: TypeBool, Default: true,
		Doc: "put a space after ','",
		set: func(c *Config, v any) { c.SpaceAfterComma = v.(bool) },
		get: func(c Config) any { return c.SpaceAfterComma },
	},
	{
		Name: OptSpaceAfterKeyword, Type: TypeBool, Default: true,
		Doc: "put a space between if/for/intersection_for/let and '('",
		set: func(c *Config, v any) { c.SpaceAfterKeyword = v.(bool) },
		get: func(c Config) any { return c.SpaceAfterKeyword },
	},
	{
		Name: OptInsertFinalNewline, Type: TypeBool, Default: true,
		Doc: "end the file with exactly one line break",
		set: func(c *Config, v any) { c.InsertFinalNewline = v.(bool) },
		get: func(c Config) any { return c.InsertFinalNewline },
	},
	{
		Name: OptLineEnding, Type: TypeEnum, Default: string(LineEndingAuto),
		Values: []string{string(LineEndingAuto), string(LineEndingLF), string(LineEndingCRLF)},
		Doc:    "line terminator; auto follows the file's first line break",
		set:    func(c *Config, v any) { c.LineEnding = LineEnding(v.(string)) },
		get:    func(c Config) any { return string(c.LineEnding) },
	},
}

// Options returns the option table in declaration order.
func Options() []Option {
	return slices.Clone(options)
}

// Lookup finds an option by name.
func Lookup(name string) (Option, bool) {
	for _, o := range options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// coerce converts v to the option's Go type (int, bool or string) and checks its domain.
func (o Option) coerce(v any) (any, error) {
	switch o.Type {
	case TypeInt:
		n, ok := toInt(v)
		if !ok {
			return nil, invalid(o.Name, v, "expected integer, got %T", v)
		}
		if n < o.Min || n > o.Max {
			return nil, invalid(o.Name, v, "out of range %d..%d", o.Min, o.Max)
		}
		return n, nil
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, invalid(o.Name, v, "expected boolean, got %T", v)
		}
		return b, nil
	case TypeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, invalid(o.Name, v, "expected one of %s, got %T", strings.Join(o.Values, ", "), v)
		}
		if !slices.Contains(o.Values, s) {
			return nil, invalid(o.Name, v, "expected one of %s", strings.Join(o.Values, ", "))
		}
		return s, nil
	}
	return nil, invalid(o.Name, v, "unsupported option type")
}

// toInt accepts Go integers and integral floats (JSON numbers decode as float64, TOML as int64).
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return toInt(i)
	}
	return 0, false
}

// ParseValue converts the textual form of a value (command line, environment)
// to the option's type.
func ParseValue(name, text string) (any, error) {
	o, ok := Lookup(name)
	if !ok {
		return nil, &ConfigurationError{Option: name, Reason: "unknown option"}
	}
	text = strings.TrimSpace(text)
	switch o.Type {
	case TypeInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, invalid(name, text, "expected integer")
		}
		return o.coerce(n)
	case TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, invalid(name, text, "expected boolean")
		}
		return b, nil
	default:
		return o.coerce(text)
	}
}

// ParseAssignment parses `name=value` into a single-entry Settings.
func ParseAssignment(kv string) (Settings, error) {
	name, text, ok := strings.Cut(kv, "=")
	if !ok {
		return nil, &ConfigurationError{Option: kv, Reason: "expected name=value"}
	}
	name = strings.TrimSpace(name)
	v, err := ParseValue(name, text)
	if err != nil {
		return nil, err
	}
	return Settings{name: v}, nil
}
