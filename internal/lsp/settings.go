package lsp

import (
	"encoding/json"
	"fmt"

	"scadfmt/internal/driver"
	"scadfmt/internal/style"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	var settings lspSettings
	if len(params.Settings) == 0 || json.Unmarshal(params.Settings, &settings) != nil {
		return nil
	}
	return s.applySettings(settings.Scadfmt)
}

// applySettings replaces the client settings. An invalid configuration is
// reported to the user and the previous one stays in effect.
func (s *Server) applySettings(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	settings, err := decodeSettings(raw)
	if err != nil {
		s.logf("configuration rejected: %v", err)
		return s.showMessage(messageError, fmt.Sprintf("scadfmt: %v; keeping the previous configuration", err))
	}
	s.mu.Lock()
	s.clientSettings = settings
	s.styles = s.newResolver(settings)
	s.mu.Unlock()
	return nil
}

func decodeSettings(raw json.RawMessage) (style.Settings, error) {
	settings, err := style.ParseJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := style.Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Server) newResolver(client style.Settings) *driver.StyleResolver {
	return &driver.StyleResolver{
		Settings:    s.cliSettings.Merge(client),
		NoDiscovery: s.noDiscovery,
	}
}

// configFor resolves the style of a document: project file (if the URI maps
// to a path), client settings, then the request's formatting options.
func (s *Server) configFor(uri string, opts *formattingOptions) (style.Config, error) {
	s.mu.Lock()
	resolver := s.styles
	s.mu.Unlock()

	var (
		cfg style.Config
		err error
	)
	if path := uriToPath(uri); path != "" {
		cfg, err = resolver.Resolve(path)
	} else {
		cfg, err = style.New(resolver.Settings)
	}
	if err != nil {
		return style.Config{}, err
	}
	if opts == nil {
		return cfg, nil
	}
	return cfg.With(requestSettings(*opts))
}

// requestSettings maps FormattingOptions onto style options.
func requestSettings(opts formattingOptions) style.Settings {
	out := style.Settings{style.OptUseTabs: !opts.InsertSpaces}
	if opts.TabSize > 0 {
		out[style.OptIndentSize] = opts.TabSize
	}
	return out
}
