package engine

import (
	"context"
	"fmt"
)

// MaxRating is the highest star rating the store accepts. A rating draft of
// 0 means "no rating entered" and suppresses the review request entirely.
const MaxRating = 5

// SessionState is the lifecycle of the single book open for editing.
type SessionState int

const (
	SessionClosed SessionState = iota
	SessionOpen
	SessionSaving
)

func (s SessionState) String() string {
	switch s {
	case SessionOpen:
		return "open"
	case SessionSaving:
		return "saving"
	default:
		return "closed"
	}
}

// Store is the Book Store surface the session needs. *bookstore.Client
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	ListBooks(ctx context.Context) ([]Book, error)
	UpdatePagesRead(ctx context.Context, id string, pagesRead int) error
	AddReview(ctx context.Context, id string, review Review) error
}

// Review is the payload of an add-review request.
type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Session owns the currently opened book and its draft edits. The session
// never mutates the catalog's copy of the book; the store is updated over
// the wire and the local replica replaced by the refresh that follows.
//
// A generation counter stamps every save transaction at BeginSave time.
// Dismissing or reopening bumps the counter, so a result arriving from a
// superseded save is recognized as stale and discarded before it can touch
// session state.
type Session struct {
	state     SessionState
	book      Book
	pagesRead int
	rating    int
	gen       int
	saveErr   error
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Book returns the session's view of the open book. Meaningful only while
// the session is open or saving.
func (s *Session) Book() Book { return s.book }

// PagesReadDraft returns the in-progress pages-read value.
func (s *Session) PagesReadDraft() int { return s.pagesRead }

// RatingDraft returns the in-progress rating, 0 meaning none entered.
func (s *Session) RatingDraft() int { return s.rating }

// SaveErr returns the write failure of the last save attempt, cleared on
// the next open, dismiss, or successful save.
func (s *Session) SaveErr() error { return s.saveErr }

// Open starts an edit session for b, discarding any previous one. The
// pages-read draft is seeded from the book; the rating draft starts at 0
// because each save is a fresh review submission, not an edit of one.
func (s *Session) Open(b Book) {
	s.state = SessionOpen
	s.book = b
	s.pagesRead = b.PagesRead
	s.rating = 0
	s.saveErr = nil
	s.gen++
}

// Dismiss closes the session without saving. Dismissing while a save is in
// flight lets the save run to completion but invalidates its result.
func (s *Session) Dismiss() {
	if s.state == SessionClosed {
		return
	}
	s.state = SessionClosed
	s.saveErr = nil
	s.gen++
}

// EditPagesRead proposes a new pages-read draft. The edit is rejected (draft
// unchanged) unless 0 <= v <= the book's page count. Returns whether the
// value was applied.
func (s *Session) EditPagesRead(v int) bool {
	if s.state != SessionOpen {
		return false
	}
	if v < 0 || v > s.book.Pages {
		return false
	}
	s.pagesRead = v
	return true
}

// EditRating proposes a new rating draft in [0, MaxRating], 0 clearing it.
func (s *Session) EditRating(v int) bool {
	if s.state != SessionOpen {
		return false
	}
	if v < 0 || v > MaxRating {
		return false
	}
	s.rating = v
	return true
}

// BeginSave snapshots the drafts into a SaveRequest and moves the session
// to Saving. Returns false when no book is open. The caller executes the
// request off the UI goroutine and feeds the result to FinishSave.
func (s *Session) BeginSave() (SaveRequest, bool) {
	if s.state != SessionOpen {
		return SaveRequest{}, false
	}
	s.state = SessionSaving
	s.saveErr = nil
	return SaveRequest{
		gen:       s.gen,
		book:      s.book,
		pagesRead: s.pagesRead,
		rating:    s.rating,
	}, true
}

// SaveRequest is an immutable snapshot of one save transaction. It carries
// everything Do needs, so executing it touches no session state.
type SaveRequest struct {
	gen       int
	book      Book
	pagesRead int
	rating    int
}

// BookID returns the ID of the book being saved.
func (r SaveRequest) BookID() string { return r.book.ID }

// SaveResult is the settled outcome of a save transaction.
type SaveResult struct {
	gen        int
	WriteErr   error  // first failed write leg, nil if both settled clean
	Refreshed  bool   // whether the catalog refresh succeeded
	Catalog    []Book // refreshed collection, valid when Refreshed
	RefreshErr error
}

// Do executes the save protocol against the store:
//
//  1. a progress update, only if the draft differs from the value held at
//     open time;
//  2. a review submission, only if a rating was entered;
//  3. a full catalog refresh, always last; the store owns derived fields,
//     so the refresh must observe whatever the writes changed.
//
// The two writes are independent; the refresh is issued only after both
// have been attempted. Failures are captured in the result, never raised.
func (r SaveRequest) Do(ctx context.Context, store Store) SaveResult {
	res := SaveResult{gen: r.gen}

	if r.pagesRead != r.book.PagesRead {
		if err := store.UpdatePagesRead(ctx, r.book.ID, r.pagesRead); err != nil {
			res.WriteErr = fmt.Errorf("updating progress: %w", err)
		}
	}
	if r.rating > 0 {
		if err := store.AddReview(ctx, r.book.ID, Review{Rating: r.rating}); err != nil && res.WriteErr == nil {
			res.WriteErr = fmt.Errorf("submitting review: %w", err)
		}
	}

	books, err := store.ListBooks(ctx)
	if err != nil {
		res.RefreshErr = err
	} else {
		res.Refreshed = true
		res.Catalog = books
	}
	return res
}

// SaveOutcome classifies what FinishSave did with a result.
type SaveOutcome int

const (
	// SaveStale: the result belongs to a superseded transaction and was
	// discarded without touching any state.
	SaveStale SaveOutcome = iota
	// SaveFailed: a write leg failed; the session stays open with drafts
	// intact so the user can retry.
	SaveFailed
	// SaveDone: writes settled clean and the session closed.
	SaveDone
)

// FinishSave applies a settled save result. Stale results (dismissed or
// reopened since BeginSave) are ignored entirely. On a write failure the
// session returns to Open, keeps its drafts, and exposes the error. On
// success the open record is reconciled against the refreshed catalog
// (the pages-read draft resyncs to the store's value) and the session
// closes, whether or not the refresh itself succeeded. A book missing from
// the refresh (deleted concurrently) closes the session without error.
func (s *Session) FinishSave(res SaveResult) SaveOutcome {
	if s.state != SessionSaving || res.gen != s.gen {
		return SaveStale
	}

	if res.WriteErr != nil {
		s.state = SessionOpen
		s.saveErr = res.WriteErr
		if res.Refreshed {
			if b := ByID(res.Catalog, s.book.ID); b != nil {
				s.book = *b // drafts kept for the retry
			}
		}
		return SaveFailed
	}

	if res.Refreshed {
		if b := ByID(res.Catalog, s.book.ID); b != nil {
			s.book = *b
			s.pagesRead = b.PagesRead
		}
	}
	s.state = SessionClosed
	s.saveErr = nil
	s.gen++
	return SaveDone
}
