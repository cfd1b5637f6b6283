// Package style holds the formatter's style configuration: the closed set of
// options, validation of user supplied values and (de)serialization as TOML
// project files and JSON editor settings.
//
// A Config is built once with New and only read afterwards. Invalid values are
// rejected with *ConfigurationError, never clamped.
package style
