package txpage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/brojonat/compte/client"
	"github.com/brojonat/compte/service/metrics"
)

// Fetcher retrieves transactions for a filter. *client.Client implements it.
type Fetcher interface {
	ListTransactions(ctx context.Context, f client.Filter) ([]client.Transaction, error)
}

// Request is a fetch issued by the page. Seq increases with every request.
type Request struct {
	Seq    uint64
	Filter client.Filter
}

// Result is the completion of a Request.
type Result struct {
	Seq          uint64
	Filter       client.Filter
	Transactions []client.Transaction
	Err          error
}

// Outcome describes what Apply did with a Result.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeFailed
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return metrics.OutcomeApplied
	case OutcomeFailed:
		return metrics.OutcomeFailed
	case OutcomeStale:
		return metrics.OutcomeStale
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Page holds the state of the transaction list for one route: the scope toggle,
// the displayed transactions and the sequence number of the latest request.
// Only the result of the latest request is ever applied.
type Page struct {
	mu sync.Mutex

	fetcher  Fetcher
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics

	route        Route
	scope        client.Scope
	transactions []client.Transaction
	seq          uint64
}

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the page logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records fetches and outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Page) { p.metrics = m }
}

// WithScope sets the initial scope. The default is client.ScopeAccount.
func WithScope(s client.Scope) Option {
	return func(p *Page) { p.scope = s }
}

// New creates a page for route. Nothing is fetched until Mount.
func New(fetcher Fetcher, notifier Notifier, route Route, opts ...Option) *Page {
	p := &Page{
		fetcher:      fetcher,
		notifier:     notifier,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		route:        route,
		scope:        client.ScopeAccount,
		transactions: []client.Transaction{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = NotifierFunc(func(string) {})
	}
	return p
}

// Mount issues the initial request.
func (p *Page) Mount() Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issueLocked("mount")
}

// Navigate moves the page to route. A request is issued only when the IBAN or
// the route param changed.
func (p *Page) Navigate(route Route) (Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if route == p.route {
		return Request{}, false
	}
	p.route = route
	return p.issueLocked("navigate"), true
}

// ToggleScope flips between account and user scope and issues one request.
func (p *Page) ToggleScope() Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scope = p.scope.Toggle()
	return p.issueLocked("toggle")
}

// Refresh re-issues the current filter.
func (p *Page) Refresh() Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issueLocked("refresh")
}

func (p *Page) issueLocked(trigger string) Request {
	p.seq++
	req := Request{Seq: p.seq, Filter: p.filterLocked()}
	p.metrics.RecordPageFetch(string(req.Filter.Scope), string(req.Filter.Category))
	p.logger.Debug("transaction fetch issued",
		"trigger", trigger,
		"seq", req.Seq,
		"filter", req.Filter.String(),
	)
	return req
}

// Do performs the request. It does not touch page state and may run concurrently.
func (p *Page) Do(ctx context.Context, req Request) Result {
	txns, err := p.fetcher.ListTransactions(ctx, req.Filter)
	return Result{Seq: req.Seq, Filter: req.Filter, Transactions: txns, Err: err}
}

// Apply folds a result into the page. Results of superseded requests are
// dropped without notification. A failure leaves the list as it was and
// reports FetchErrorMessage once. A success replaces the list.
func (p *Page) Apply(res Result) Outcome {
	p.mu.Lock()
	outcome := p.applyLocked(res)
	size := len(p.transactions)
	p.mu.Unlock()

	p.metrics.RecordPageOutcome(outcome.String(), size)
	if outcome == OutcomeFailed {
		p.notifier.ReportError(FetchErrorMessage)
	}
	return outcome
}

func (p *Page) applyLocked(res Result) Outcome {
	if res.Seq < p.seq {
		p.logger.Debug("stale transaction result dropped",
			"seq", res.Seq,
			"latest", p.seq,
			"filter", res.Filter.String(),
			"error", res.Err,
		)
		return OutcomeStale
	}

	if res.Err != nil {
		p.logger.Error("failed to fetch transactions",
			"seq", res.Seq,
			"filter", res.Filter.String(),
			"error", res.Err,
		)
		return OutcomeFailed
	}

	p.transactions = make([]client.Transaction, len(res.Transactions))
	copy(p.transactions, res.Transactions)
	p.logger.Debug("transactions applied",
		"seq", res.Seq,
		"filter", res.Filter.String(),
		"count", len(p.transactions),
	)
	return OutcomeApplied
}

// Load runs req and applies its result.
func (p *Page) Load(ctx context.Context, req Request) Outcome {
	return p.Apply(p.Do(ctx, req))
}

// Route returns the current route.
func (p *Page) Route() Route {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.route
}

// Scope returns the current scope.
func (p *Page) Scope() client.Scope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scope
}

// Category returns the category derived from the route param.
func (p *Page) Category() client.Category {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.route.Category()
}

// Filter returns the filter the next request would use.
func (p *Page) Filter() client.Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filterLocked()
}

func (p *Page) filterLocked() client.Filter {
	return client.Filter{
		Scope:    p.scope,
		Category: p.route.Category(),
		IBAN:     p.route.IBAN,
	}
}

// Transactions returns a copy of the displayed list.
func (p *Page) Transactions() []client.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]client.Transaction, len(p.transactions))
	copy(out, p.transactions)
	return out
}

// Views returns one view per displayed transaction, in order.
func (p *Page) Views() []TransactionView {
	p.mu.Lock()
	defer p.mu.Unlock()
	views := make([]TransactionView, len(p.transactions))
	for i, t := range p.transactions {
		views[i] = NewTransactionView(t, p.route.IBAN)
	}
	return views
}

// Render writes the page as plain text.
func (p *Page) Render(w io.Writer) error {
	return RenderList(w, p.Filter(), p.Views())
}

// NoTransactionsMessage is rendered in place of an empty list.
const NoTransactionsMessage = "No transactions found"

// RenderList writes the header for f followed by one line per view, or
// NoTransactionsMessage when views is empty.
func RenderList(w io.Writer, f client.Filter, views []TransactionView) error {
	if _, err := fmt.Fprintf(w, "Transactions for IBAN: %s\n", f.IBAN); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scope: %s  Category: %s\n\n", f.Scope, f.Category); err != nil {
		return err
	}
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, NoTransactionsMessage)
		return err
	}
	for _, v := range views {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	return nil
}
