package lsp

import (
	"context"
	"unicode/utf8"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/cristianoliveira/htmx-lsp/analysis"
	"github.com/cristianoliveira/htmx-lsp/catalog"
	"github.com/cristianoliveira/htmx-lsp/syntax"
)

// Completion handles textDocument/completion requests. A nil list means
// there is nothing to offer and the client gets a null result.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	uri := params.TextDocument.URI

	s.logger.Debug("Completion",
		zap.String("uri", string(uri)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	if !classifiable(params.Context) {
		s.logger.Debug("Unhandled completion context", zap.Any("context", params.Context))

		return nil, nil //nolint:nilnil // null result is the LSP way to offer nothing
	}

	text, ok := s.documents.Get(uri)
	if !ok {
		s.logger.Warn("Completion for unknown document", zap.String("uri", string(uri)))

		return nil, nil //nolint:nilnil // null result is the LSP way to offer nothing
	}

	result, err := s.classify(ctx, uri, []byte(text), params.Position)
	if err != nil {
		s.logger.Error("Failed to parse document", zap.String("uri", string(uri)), zap.Error(err))

		return nil, nil //nolint:nilnil // parse failures degrade to no result
	}

	s.logger.Debug("Completion context", zap.Stringer("result", result))

	candidates := s.catalog.Candidates(result)
	if len(candidates) == 0 {
		return nil, nil //nolint:nilnil // null result is the LSP way to offer nothing
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        completionItems(candidates),
	}, nil
}

// classifiable reports whether a completion was triggered in a way the
// classifier handles: explicitly invoked or by a trigger character.
func classifiable(cc *protocol.CompletionContext) bool {
	if cc == nil {
		return false
	}

	switch cc.TriggerKind {
	case protocol.CompletionTriggerKindInvoked, protocol.CompletionTriggerKindTriggerCharacter:
		return true
	default:
		return false
	}
}

// Classify parses source and classifies the cursor at an LSP position.
func Classify(ctx context.Context, source []byte, pos protocol.Position, opts analysis.Options) (analysis.Classification, error) {
	tree, err := syntax.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return classifyTree(tree, source, pos, opts), nil
}

// classify is Classify with the parse reported on the server's logger.
func (s *Server) classify(ctx context.Context, uri protocol.DocumentURI, source []byte, pos protocol.Position) (analysis.Classification, error) {
	tree, err := syntax.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	if tree.HasError() {
		s.logger.Debug("Classifying recovered syntax tree", zap.String("uri", string(uri)))
	}

	// Captures over undecodable bytes read as empty text.
	if !utf8.Valid(source) {
		s.logger.Debug("Document is not valid UTF-8", zap.String("uri", string(uri)))
	}

	return classifyTree(tree, source, pos, s.analysis), nil
}

func classifyTree(tree *syntax.Tree, source []byte, pos protocol.Position, opts analysis.Options) analysis.Classification {
	trigger := syntax.PointAt(source, pos.Line, pos.Character)

	return analysis.Classify(tree.Enclosing(trigger), source, trigger, opts)
}

func completionItems(candidates []catalog.Candidate) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(candidates))

	for _, c := range candidates {
		item := protocol.CompletionItem{
			Label:  c.Label,
			Kind:   completionItemKind(c.Kind),
			Detail: "htmx",
		}

		if c.Documentation != "" {
			item.Documentation = &protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: c.Documentation,
			}
		}

		items = append(items, item)
	}

	return items
}

func completionItemKind(k catalog.CandidateKind) protocol.CompletionItemKind {
	switch k {
	case catalog.CandidateAttribute:
		return protocol.CompletionItemKindProperty
	case catalog.CandidateValue:
		return protocol.CompletionItemKindValue
	default:
		return protocol.CompletionItemKindText
	}
}
