package engine

import "sort"

// Book is one entry in the remote collection. The engine only ever holds a
// read replica; the Book Store owns the data, and local copies are replaced
// wholesale by a refresh, never mutated in place.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	ISBN      string `json:"isbn,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	// Status is a server-defined label ("Not started", "Reading", ...).
	// The vocabulary belongs to the store, so it stays an open string here.
	Status    string `json:"status"`
	Pages     int    `json:"pages"` // 0 = unknown / not applicable
	PagesRead int    `json:"pagesRead"`
	CoverURL  string `json:"coverUrl,omitempty"`
}

// ByID returns the first book with the given ID, or nil.
func ByID(books []Book, id string) *Book {
	for i := range books {
		if books[i].ID == id {
			return &books[i]
		}
	}
	return nil
}

// Categories returns the distinct non-empty category values present in
// books, sorted ascending. Empty for an empty collection.
func Categories(books []Book) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range books {
		if b.Category == "" {
			continue
		}
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	sort.Strings(out)
	return out
}
