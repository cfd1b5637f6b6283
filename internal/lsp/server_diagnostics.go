package lsp

import (
	"sort"
	"sync/atomic"
	"time"

	"fortio.org/safecast"

	"scadfmt/internal/diag"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
)

func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := atomic.AddUint64(&s.analysisSeq, 1)
	atomic.StoreUint64(&s.latestSeq, seq)
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
}

func (s *Server) stopDiagnostics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	atomic.AddUint64(&s.latestSeq, 1)
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

// runDiagnostics lexes and parses every open document and publishes the
// result; a newer schedule makes it stop early.
func (s *Server) runDiagnostics(seq uint64) {
	if !s.isLatestSeq(seq) {
		return
	}
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	docs := make(map[string]document, len(s.docs))
	for uri, doc := range s.docs {
		uris = append(uris, uri)
		docs[uri] = *doc
	}
	s.mu.Unlock()
	sort.Strings(uris)

	for _, uri := range uris {
		if !s.isLatestSeq(seq) {
			return
		}
		doc := docs[uri]
		list := s.documentDiagnostics(uri, doc.text)

		s.mu.Lock()
		_, open := s.docs[uri]
		_, had := s.published[uri]
		if open && len(list) > 0 {
			s.published[uri] = struct{}{}
		} else {
			delete(s.published, uri)
		}
		s.mu.Unlock()
		if !open || (len(list) == 0 && !had) {
			continue
		}
		version := doc.version
		if err := s.sendPublish(uri, &version, list); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
	}
}

func (s *Server) documentDiagnostics(uri, text string) []lspDiagnostic {
	file := virtualFile(uriToPath(uri), text)
	bag := diag.NewBag(s.maxDiagnostics)
	maxErrors, err := safecast.Conv[uint](s.maxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	parser.Parse(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}, MaxErrors: maxErrors})
	bag.DropShadowed(diag.SynRecoveredStatement)
	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	out := make([]lspDiagnostic, 0, len(items))
	for _, d := range items {
		out = append(out, toLSPDiagnostic(file, d))
	}
	return out
}

func toLSPDiagnostic(file *source.File, d diag.Diagnostic) lspDiagnostic {
	return lspDiagnostic{
		Range:    rangeForSpan(file, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   "scadfmt",
		Message:  d.Message,
	}
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for uri := range prev {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}
