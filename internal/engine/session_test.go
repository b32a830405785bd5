package engine_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bookdeck/bookdeck/internal/engine"
)

// fakeStore is an in-memory Book Store recording every request in order.
type fakeStore struct {
	catalog   []engine.Book
	listErr   error
	updateErr error
	reviewErr error

	ops     []string // "update", "review", "list" in request order
	updates []progressCall
	reviews []reviewCall
}

type progressCall struct {
	id        string
	pagesRead int
}

type reviewCall struct {
	id     string
	review engine.Review
}

func (f *fakeStore) ListBooks(ctx context.Context) ([]engine.Book, error) {
	f.ops = append(f.ops, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.catalog, nil
}

func (f *fakeStore) UpdatePagesRead(ctx context.Context, id string, pagesRead int) error {
	f.ops = append(f.ops, "update")
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, progressCall{id, pagesRead})
	return nil
}

func (f *fakeStore) AddReview(ctx context.Context, id string, review engine.Review) error {
	f.ops = append(f.ops, "review")
	if f.reviewErr != nil {
		return f.reviewErr
	}
	f.reviews = append(f.reviews, reviewCall{id, review})
	return nil
}

func dune() engine.Book {
	return engine.Book{ID: "1", Title: "Dune", Author: "Frank Herbert", Category: "SciFi", Status: "Reading", Pages: 400, PagesRead: 50}
}

// --- Opening ---

func TestOpen_SeedsDrafts(t *testing.T) {
	var s engine.Session
	s.Open(dune())
	if s.State() != engine.SessionOpen {
		t.Fatalf("state = %v, want open", s.State())
	}
	if s.PagesReadDraft() != 50 {
		t.Errorf("pages draft = %d, want 50 (seeded from book)", s.PagesReadDraft())
	}
	// The engine does not know any prior rating; each save is a fresh review.
	if s.RatingDraft() != 0 {
		t.Errorf("rating draft = %d, want 0", s.RatingDraft())
	}
}

// --- Draft edits ---

func TestEditPagesRead_Clamp(t *testing.T) {
	tests := []struct {
		name      string
		attempt   int
		applied   bool
		wantDraft int
	}{
		{"within range", 120, true, 120},
		{"zero", 0, true, 0},
		{"exactly pages", 400, true, 400},
		{"exceeds pages", 450, false, 50},
		{"negative", -10, false, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s engine.Session
			s.Open(dune())
			if got := s.EditPagesRead(tt.attempt); got != tt.applied {
				t.Errorf("EditPagesRead(%d) = %v, want %v", tt.attempt, got, tt.applied)
			}
			if s.PagesReadDraft() != tt.wantDraft {
				t.Errorf("draft = %d, want %d", s.PagesReadDraft(), tt.wantDraft)
			}
		})
	}
}

func TestEditRating_Bounds(t *testing.T) {
	var s engine.Session
	s.Open(dune())
	for v := 0; v <= engine.MaxRating; v++ {
		if !s.EditRating(v) {
			t.Errorf("EditRating(%d) rejected", v)
		}
		if s.RatingDraft() != v {
			t.Errorf("rating draft = %d, want %d", s.RatingDraft(), v)
		}
	}
	for _, v := range []int{-1, 6, 100} {
		if s.EditRating(v) {
			t.Errorf("EditRating(%d) applied, want rejected", v)
		}
	}
	if s.RatingDraft() != engine.MaxRating {
		t.Errorf("rating draft = %d after rejected edits, want %d", s.RatingDraft(), engine.MaxRating)
	}
}

func TestEdit_RequiresOpen(t *testing.T) {
	var s engine.Session
	if s.EditPagesRead(10) || s.EditRating(3) {
		t.Error("edits must be rejected while closed")
	}
}

// --- Dismissal ---

func TestDismiss_ClosesWithoutSaving(t *testing.T) {
	store := &fakeStore{}
	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(200)
	s.Dismiss()
	if s.State() != engine.SessionClosed {
		t.Errorf("state = %v, want closed", s.State())
	}
	if len(store.ops) != 0 {
		t.Errorf("dismiss issued requests: %v", store.ops)
	}
}

// --- Save protocol ---

func TestSave_ProgressOnly(t *testing.T) {
	refreshed := dune()
	refreshed.PagesRead = 120
	store := &fakeStore{catalog: []engine.Book{refreshed}}

	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(120)

	req, ok := s.BeginSave()
	if !ok {
		t.Fatal("BeginSave refused")
	}
	if s.State() != engine.SessionSaving {
		t.Fatalf("state = %v, want saving", s.State())
	}

	res := req.Do(context.Background(), store)
	if got := s.FinishSave(res); got != engine.SaveDone {
		t.Fatalf("outcome = %v, want SaveDone", got)
	}

	wantOps := []string{"update", "list"}
	if !reflect.DeepEqual(store.ops, wantOps) {
		t.Errorf("ops = %v, want %v", store.ops, wantOps)
	}
	if len(store.updates) != 1 || store.updates[0] != (progressCall{"1", 120}) {
		t.Errorf("updates = %v, want one {1 120}", store.updates)
	}
	if len(store.reviews) != 0 {
		t.Errorf("reviews = %v, want none (rating 0 suppresses)", store.reviews)
	}
	if s.State() != engine.SessionClosed {
		t.Errorf("state = %v, want closed", s.State())
	}
}

func TestSave_RatingSuppression(t *testing.T) {
	for rating := 0; rating <= engine.MaxRating; rating++ {
		store := &fakeStore{catalog: []engine.Book{dune()}}
		var s engine.Session
		s.Open(dune())
		s.EditRating(rating)

		req, _ := s.BeginSave()
		s.FinishSave(req.Do(context.Background(), store))

		want := 1
		if rating == 0 {
			want = 0
		}
		if len(store.reviews) != want {
			t.Errorf("rating %d: %d review requests, want %d", rating, len(store.reviews), want)
		}
		if want == 1 && store.reviews[0].review != (engine.Review{Rating: rating}) {
			t.Errorf("rating %d: review payload = %+v", rating, store.reviews[0].review)
		}
	}
}

func TestSave_NoEdits_OnlyRefreshes(t *testing.T) {
	store := &fakeStore{catalog: []engine.Book{dune()}}
	var s engine.Session
	s.Open(dune()) // nothing edited: draft equals the value held at open time

	req, _ := s.BeginSave()
	s.FinishSave(req.Do(context.Background(), store))

	if !reflect.DeepEqual(store.ops, []string{"list"}) {
		t.Errorf("ops = %v, want [list] only", store.ops)
	}
	if s.State() != engine.SessionClosed {
		t.Errorf("state = %v, want closed", s.State())
	}
}

func TestSave_ReconcilesAgainstRefresh(t *testing.T) {
	refreshed := dune()
	refreshed.PagesRead = 130 // the store is the source of truth
	refreshed.Status = "Reading"
	store := &fakeStore{catalog: []engine.Book{refreshed}}

	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(120)

	req, _ := s.BeginSave()
	if got := s.FinishSave(req.Do(context.Background(), store)); got != engine.SaveDone {
		t.Fatalf("outcome = %v, want SaveDone", got)
	}
	if s.PagesReadDraft() != 130 {
		t.Errorf("draft = %d after reconcile, want 130", s.PagesReadDraft())
	}
	if s.Book().PagesRead != 130 {
		t.Errorf("book view not refreshed: %+v", s.Book())
	}
}

func TestSave_BookGoneFromRefresh(t *testing.T) {
	store := &fakeStore{catalog: []engine.Book{}} // deleted concurrently
	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(120)

	req, _ := s.BeginSave()
	if got := s.FinishSave(req.Do(context.Background(), store)); got != engine.SaveDone {
		t.Fatalf("outcome = %v, want SaveDone", got)
	}
	if s.State() != engine.SessionClosed {
		t.Errorf("state = %v, want closed", s.State())
	}
}

func TestSave_RefreshFailureStillCloses(t *testing.T) {
	store := &fakeStore{listErr: errors.New("network down")}
	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(120)

	req, _ := s.BeginSave()
	res := req.Do(context.Background(), store)
	if res.Refreshed {
		t.Fatal("result claims a refresh that failed")
	}
	if got := s.FinishSave(res); got != engine.SaveDone {
		t.Fatalf("outcome = %v, want SaveDone", got)
	}
	if s.State() != engine.SessionClosed {
		t.Errorf("state = %v, want closed despite failed refresh", s.State())
	}
}

func TestSave_WriteFailureKeepsSessionOpen(t *testing.T) {
	store := &fakeStore{
		catalog:   []engine.Book{dune()},
		updateErr: errors.New("503 unavailable"),
	}
	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(120)
	s.EditRating(4)

	req, _ := s.BeginSave()
	res := req.Do(context.Background(), store)
	if got := s.FinishSave(res); got != engine.SaveFailed {
		t.Fatalf("outcome = %v, want SaveFailed", got)
	}
	if s.State() != engine.SessionOpen {
		t.Errorf("state = %v, want open for retry", s.State())
	}
	if s.PagesReadDraft() != 120 || s.RatingDraft() != 4 {
		t.Errorf("drafts = %d/%d, want intact 120/4", s.PagesReadDraft(), s.RatingDraft())
	}
	if s.SaveErr() == nil {
		t.Error("SaveErr = nil, want the write failure exposed")
	}
	// The refresh still ran after the failed write.
	if store.ops[len(store.ops)-1] != "list" {
		t.Errorf("ops = %v, want refresh last", store.ops)
	}
}

func TestSave_ReviewFailureKeepsSessionOpen(t *testing.T) {
	store := &fakeStore{
		catalog:   []engine.Book{dune()},
		reviewErr: errors.New("503 unavailable"),
	}
	var s engine.Session
	s.Open(dune())
	s.EditRating(5)

	req, _ := s.BeginSave()
	if got := s.FinishSave(req.Do(context.Background(), store)); got != engine.SaveFailed {
		t.Fatalf("outcome = %v, want SaveFailed", got)
	}
	if s.State() != engine.SessionOpen {
		t.Errorf("state = %v, want open", s.State())
	}
}

// --- Stale in-flight saves ---

func TestSave_DismissInvalidatesInFlightResult(t *testing.T) {
	store := &fakeStore{catalog: []engine.Book{dune()}}
	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(120)

	req, _ := s.BeginSave()
	res := req.Do(context.Background(), store)

	s.Dismiss() // user closed the dialog while the save was in flight
	if got := s.FinishSave(res); got != engine.SaveStale {
		t.Fatalf("outcome = %v, want SaveStale", got)
	}
	if s.State() != engine.SessionClosed {
		t.Errorf("state = %v, want closed", s.State())
	}
}

func TestSave_ReopenInvalidatesInFlightResult(t *testing.T) {
	refreshed := dune()
	refreshed.PagesRead = 120
	store := &fakeStore{catalog: []engine.Book{refreshed}}

	var s engine.Session
	s.Open(dune())
	s.EditPagesRead(120)
	req, _ := s.BeginSave()
	res := req.Do(context.Background(), store)

	s.Dismiss()
	other := engine.Book{ID: "2", Title: "Foundation", Pages: 400, PagesRead: 10}
	s.Open(other)
	s.EditPagesRead(40)

	if got := s.FinishSave(res); got != engine.SaveStale {
		t.Fatalf("outcome = %v, want SaveStale", got)
	}
	if s.Book().ID != "2" || s.PagesReadDraft() != 40 {
		t.Errorf("stale result leaked into new session: book %s, draft %d", s.Book().ID, s.PagesReadDraft())
	}
}

func TestBeginSave_RequiresOpen(t *testing.T) {
	var s engine.Session
	if _, ok := s.BeginSave(); ok {
		t.Error("BeginSave must refuse while closed")
	}
	s.Open(dune())
	s.BeginSave()
	if _, ok := s.BeginSave(); ok {
		t.Error("BeginSave must refuse while already saving")
	}
}
