// Package engine derives the visible, filterable view over a remote book
// collection and coordinates the open-edit-save-refresh cycle against the
// Book Store. It performs no I/O itself: network legs are snapshotted into
// requests the caller executes (inside a tea.Cmd, typically) and the settled
// results are fed back in on the UI goroutine.
package engine

import "log"

// Engine owns the local catalog replica, the filter state, and the edit
// session. Not safe for concurrent use; the presentation layer serializes
// intents through its event loop.
type Engine struct {
	statuses StatusList
	catalog  []Book
	filter   Filter
	session  Session
}

// New creates an engine with an empty catalog.
func New(statuses StatusList) *Engine {
	return &Engine{statuses: statuses}
}

// Catalog returns the full local replica in store order.
func (e *Engine) Catalog() []Book { return e.catalog }

// Statuses returns the reading-status reference list.
func (e *Engine) Statuses() StatusList { return e.statuses }

// Filter returns the current filter state.
func (e *Engine) Filter() Filter { return e.filter }

// Session returns the edit session for inspection by the presentation layer.
func (e *Engine) Session() *Session { return &e.session }

// SetCatalog replaces the replica wholesale. A refresh is an atomic swap;
// there is no incremental merge.
func (e *Engine) SetCatalog(books []Book) { e.catalog = books }

// ApplyRefresh folds a list-books result into the engine. A transport
// failure is deliberately swallowed: the prior catalog stays in place and
// the failure is only logged, so one dead request never wedges the UI.
func (e *Engine) ApplyRefresh(books []Book, err error) {
	if err != nil {
		log.Printf("catalog refresh failed, keeping %d known books: %v", len(e.catalog), err)
		return
	}
	e.catalog = books
}

// Visible returns the books passing the current filter, in catalog order.
func (e *Engine) Visible() []Book {
	return e.filter.Apply(e.catalog, e.statuses)
}

// Categories returns the distinct categories of the current catalog, sorted.
func (e *Engine) Categories() []string {
	return Categories(e.catalog)
}

// SetSearch updates the search text.
func (e *Engine) SetSearch(q string) { e.filter.Search = q }

// SetMode switches the filter mode, clearing the selected value.
func (e *Engine) SetMode(m Mode) { e.filter.SetMode(m) }

// SetValue selects a filter value: a status ID in ModeByStatus, a category
// in ModeByCategory. Ignored in ModeAll, where no value is meaningful.
func (e *Engine) SetValue(v string) {
	if e.filter.Mode == ModeAll {
		return
	}
	e.filter.Value = v
}

// OpenBook opens the book with the given ID for editing. Returns false if
// the ID is not in the catalog.
func (e *Engine) OpenBook(id string) bool {
	b := ByID(e.catalog, id)
	if b == nil {
		return false
	}
	e.session.Open(*b)
	return true
}

// EditPagesRead forwards a pages-read draft edit to the session.
func (e *Engine) EditPagesRead(v int) bool { return e.session.EditPagesRead(v) }

// EditRating forwards a rating draft edit to the session.
func (e *Engine) EditRating(v int) bool { return e.session.EditRating(v) }

// Dismiss closes the session without saving.
func (e *Engine) Dismiss() { e.session.Dismiss() }

// BeginSave starts a save transaction; see Session.BeginSave.
func (e *Engine) BeginSave() (SaveRequest, bool) { return e.session.BeginSave() }

// FinishSave applies a settled save result to the session and, when the
// result is current and carries a refreshed collection, swaps the catalog.
// A stale result leaves both untouched.
func (e *Engine) FinishSave(res SaveResult) SaveOutcome {
	outcome := e.session.FinishSave(res)
	if outcome != SaveStale && res.Refreshed {
		e.catalog = res.Catalog
	}
	return outcome
}
