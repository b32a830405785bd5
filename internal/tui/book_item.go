package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/bookdeck/bookdeck/internal/engine"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BookItem wraps an engine.Book for the browser list.
type BookItem struct {
	Book engine.Book
}

// FilterValue is unused: the engine owns filtering, and the list's built-in
// filter stays disabled so the two never disagree.
func (b BookItem) FilterValue() string { return "" }

// ProgressLabel formats the reading progress column, "-" when the page
// count is unknown.
func ProgressLabel(b engine.Book) string {
	if b.Pages <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", b.PagesRead, b.Pages)
}

// Column width constraints
const (
	minTitleWidth    = 12
	maxTitleWidth    = 48
	minAuthorWidth   = 8
	maxAuthorWidth   = 24
	minCategoryWidth = 6
	maxCategoryWidth = 16
	minStatusWidth   = 7
	maxStatusWidth   = 14
	minProgressWidth = 7
	maxProgressWidth = 11
	columnGap        = 1
)

// computeColumnWidths distributes available width proportionally across columns.
func computeColumnWidths(totalWidth int) (titleW, authorW, categoryW, statusW, progressW int) {
	prefix := 2
	gaps := columnGap * 4
	usable := totalWidth - prefix - gaps
	if usable < minTitleWidth+minAuthorWidth+minCategoryWidth+minStatusWidth+minProgressWidth {
		return minTitleWidth, minAuthorWidth, minCategoryWidth, minStatusWidth, minProgressWidth
	}
	titleW = usable * 40 / 100
	if titleW > maxTitleWidth {
		titleW = maxTitleWidth
	}
	remaining := usable - titleW
	authorW = remaining * 35 / 100
	if authorW > maxAuthorWidth {
		authorW = maxAuthorWidth
	}
	categoryW = remaining * 25 / 100
	if categoryW > maxCategoryWidth {
		categoryW = maxCategoryWidth
	}
	statusW = remaining * 25 / 100
	if statusW > maxStatusWidth {
		statusW = maxStatusWidth
	}
	progressW = remaining - authorW - categoryW - statusW // remainder
	if progressW > maxProgressWidth {
		progressW = maxProgressWidth
	}

	if titleW < minTitleWidth {
		titleW = minTitleWidth
	}
	if authorW < minAuthorWidth {
		authorW = minAuthorWidth
	}
	if categoryW < minCategoryWidth {
		categoryW = minCategoryWidth
	}
	if statusW < minStatusWidth {
		statusW = minStatusWidth
	}
	if progressW < minProgressWidth {
		progressW = minProgressWidth
	}
	return
}

// padOrTruncate pads s to exactly width visible chars, truncating with "…"
// if necessary. Rune count, not byte length, so UTF-8 titles align.
func padOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	n := len(runes)
	if n > width {
		if width <= 1 {
			return "…"
		}
		return string(runes[:width-1]) + "…"
	}
	if n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// bookDelegate renders BookItems as fixed-width columns.
type bookDelegate struct{}

func (d bookDelegate) Height() int                             { return 1 }
func (d bookDelegate) Spacing() int                            { return 0 }
func (d bookDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bookItem, ok := item.(BookItem)
	if !ok {
		return
	}

	listWidth := m.Width()
	if listWidth <= 0 {
		listWidth = 80
	}
	titleW, authorW, categoryW, statusW, progressW := computeColumnWidths(listWidth)
	gap := strings.Repeat(" ", columnGap)

	isCursor := index == m.Index()
	prefix := "  "
	if isCursor {
		prefix = lipgloss.NewStyle().Foreground(ColorOrange).Render("›") + " "
	}

	b := bookItem.Book
	titleCol := padOrTruncate(b.Title, titleW)
	authorCol := padOrTruncate(b.Author, authorW)
	categoryCol := padOrTruncate(b.Category, categoryW)
	statusCol := padOrTruncate(b.Status, statusW)
	progressCol := padOrTruncate(ProgressLabel(b), progressW)

	var line string
	if isCursor {
		line = StyleHighlight.Render(titleCol) + gap +
			StyleNormal.Render(authorCol) + gap +
			StyleCategory.Render(categoryCol) + gap +
			StyleNormal.Render(statusCol) + gap +
			StyleHelp.Render(progressCol)
	} else {
		line = StyleNormal.Render(titleCol) + gap +
			StyleHelp.Render(authorCol) + gap +
			StyleCategory.Render(categoryCol) + gap +
			StyleHelp.Render(statusCol) + gap +
			StyleHelp.Render(progressCol)
	}

	fmt.Fprint(w, prefix+line)
}

// RenderColumnHeader renders the column captions above the list.
func RenderColumnHeader(listWidth int) string {
	titleW, authorW, categoryW, statusW, progressW := computeColumnWidths(listWidth)
	gap := strings.Repeat(" ", columnGap)
	hdr := "  " +
		padOrTruncate("TITLE", titleW) + gap +
		padOrTruncate("AUTHOR", authorW) + gap +
		padOrTruncate("CATEGORY", categoryW) + gap +
		padOrTruncate("STATUS", statusW) + gap +
		padOrTruncate("PAGES", progressW)
	return StyleHelp.Render(hdr)
}
