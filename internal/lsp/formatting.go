package lsp

import (
	"context"
	"encoding/json"

	"scadfmt/internal/engine"
	"scadfmt/internal/textedit"
)

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	edits, err := s.formatDocument(params.TextDocument.URI, nil, params.Options)
	if err != nil {
		return s.sendError(msg.ID, codeRequestFailed, err.Error())
	}
	return s.sendResponse(msg.ID, edits)
}

func (s *Server) handleRangeFormatting(msg *rpcMessage) error {
	var params documentRangeFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	edits, err := s.formatDocument(params.TextDocument.URI, &params.Range, params.Options)
	if err != nil {
		return s.sendError(msg.ID, codeRequestFailed, err.Error())
	}
	return s.sendResponse(msg.ID, edits)
}

// formatDocument computes the edits for an open document, or for the
// statements rng touches. Unknown documents produce no edits.
func (s *Server) formatDocument(uri string, rng *lspRange, opts *formattingOptions) ([]textEdit, error) {
	doc, ok := s.snapshot(uri)
	if !ok {
		return []textEdit{}, nil
	}
	cfg, err := s.configFor(uri, opts)
	if err != nil {
		return nil, err
	}
	path := uriToPath(uri)
	file := virtualFile(path, doc.text)

	var byteRange *engine.Range
	if rng != nil {
		byteRange = &engine.Range{
			Start: offsetForPositionInFile(file, rng.Start),
			End:   offsetForPositionInFile(file, rng.End),
		}
	}
	svc := engine.Service{Path: path}
	ctx := s.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	edits := svc.Edits(ctx, file.Content, byteRange, cfg)
	if err := textedit.Validate(file.Content, edits); err != nil {
		s.logf("formatter produced invalid edits for %s: %v", uri, err)
		return []textEdit{}, nil
	}
	return toTextEdits(file, edits), nil
}
