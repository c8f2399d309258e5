package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/exchange"
)

type exchangeService struct {
	goals    *goalService
	observer UseCaseObserver
}

func NewExchangeService(nodes NodeStore, views Views, nav Navigator, observer UseCaseObserver, opts ...Option) ExchangeService {
	obs := useCaseObserverOrNoop([]UseCaseObserver{observer})
	return &exchangeService{
		goals:    &goalService{nodes: nodes, views: views, nav: nav, observer: obs, options: buildOptions(opts)},
		observer: obs,
	}
}

// Export writes every node, reachable or not, so a backup round-trips.
func (s *exchangeService) Export(ctx context.Context, w io.Writer, format exchange.Format) (count int, err error) {
	fields := map[string]any{"format": string(format)}
	done := track(ctx, s.observer, "export", fields)
	defer func() { done(err) }()

	if _, err := usableView(ctx, s.goals.nodes, s.goals.views); err != nil {
		return 0, err
	}
	snap := s.goals.nodes.Current()
	doc := exchange.FromNodes(snap.Nodes, s.goals.now())
	if err := exchange.Encode(w, format, doc); err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	fields["node_count"] = len(doc.Nodes)
	return len(doc.Nodes), nil
}

func (s *exchangeService) ImportFile(ctx context.Context, path string, replace bool) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f, exchange.FormatFromPath(path), replace)
}

// Import validates the whole document before writing anything, then
// writes it in one transaction. Merging never moves a stored node: its
// parent and creation time are kept.
func (s *exchangeService) Import(ctx context.Context, r io.Reader, format exchange.Format, replace bool) (result *ImportResult, err error) {
	fields := map[string]any{"format": string(format), "replace": replace}
	done := track(ctx, s.observer, "import", fields)
	defer func() { done(err) }()

	doc, err := exchange.Decode(r, format)
	if err != nil {
		return nil, err
	}
	var existing []domain.Node
	if !replace {
		existing = s.goals.nodes.Current().Nodes
	}
	if errs := exchange.ValidateAgainst(doc, existing); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	nodes := exchange.ToNodes(doc, s.goals.defaultColor, s.goals.now().UTC())
	if _, err := s.goals.nodes.Import(nodes, replace).Wait(ctx); err != nil {
		return nil, fmt.Errorf("importing nodes: %w", err)
	}
	if replace {
		s.goals.nav.NavigateToRoot()
	}
	if _, err := usableView(ctx, s.goals.nodes, s.goals.views); err != nil {
		return nil, err
	}
	fields["node_count"] = len(nodes)
	return &ImportResult{NodeCount: len(nodes), Replaced: replace}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("(%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w %s", ErrInvalidImport, msg)
}
