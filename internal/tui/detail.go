package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bookdeck/bookdeck/internal/engine"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// openDetail seeds the form inputs from the freshly opened session.
func (b Browser) openDetail() (tea.Model, tea.Cmd) {
	sess := b.eng.Session()

	b.pagesInput = textinput.New()
	b.pagesInput.Prompt = "│ "
	b.pagesInput.CharLimit = 6
	b.pagesInput.Width = 8
	b.pagesInput.SetValue(strconv.Itoa(sess.PagesReadDraft()))
	b.pagesInput.Focus()
	b.focusRating = false
	b.formErr = ""

	return b, textinput.Blink
}

// commitPages parses the pages field into the session's draft. Non-numeric
// input coerces to 0; a value over the book's page count is rejected, the
// draft stays put, and the input snaps back to it. Returns whether the
// field now matches an applied draft.
func (b *Browser) commitPages() bool {
	v, err := strconv.Atoi(strings.TrimSpace(b.pagesInput.Value()))
	if err != nil || v < 0 {
		v = 0
	}
	if !b.eng.EditPagesRead(v) {
		sess := b.eng.Session()
		b.formErr = fmt.Sprintf("pages read cannot exceed %d", sess.Book().Pages)
		b.pagesInput.SetValue(strconv.Itoa(sess.PagesReadDraft()))
		return false
	}
	b.formErr = ""
	b.pagesInput.SetValue(strconv.Itoa(b.eng.Session().PagesReadDraft()))
	return true
}

func (b Browser) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return b, tea.Quit

	case "esc":
		b.eng.Dismiss()
		b.formErr = ""
		b.syncList()
		return b, nil

	case "tab", "shift+tab", "up", "down":
		if !b.focusRating {
			if !b.commitPages() {
				return b, nil
			}
			b.pagesInput.Blur()
			b.focusRating = true
			return b, nil
		}
		b.focusRating = false
		return b, b.pagesInput.Focus()

	case "enter":
		if !b.focusRating && !b.commitPages() {
			return b, nil
		}
		req, ok := b.eng.BeginSave()
		if !ok {
			return b, nil
		}
		return b, tea.Batch(b.spin.Tick, saveCmd(req, b.store))
	}

	if b.focusRating {
		switch msg.String() {
		case "0", "1", "2", "3", "4", "5":
			n, _ := strconv.Atoi(msg.String())
			b.eng.EditRating(n)
		case "left", "h":
			b.eng.EditRating(b.eng.Session().RatingDraft() - 1)
		case "right", "l":
			b.eng.EditRating(b.eng.Session().RatingDraft() + 1)
		}
		return b, nil
	}

	var cmd tea.Cmd
	b.pagesInput, cmd = b.pagesInput.Update(msg)
	return b, cmd
}

// ratingStars renders a 0-5 rating, 0 meaning no rating entered.
func ratingStars(r int) string {
	if r <= 0 {
		return StyleHelp.Render("no rating")
	}
	full := lipgloss.NewStyle().Foreground(ColorYellow).Render(strings.Repeat("★", r))
	empty := StyleHelp.Render(strings.Repeat("☆", engine.MaxRating-r))
	return full + empty
}

func (b Browser) viewDetail() string {
	sess := b.eng.Session()
	book := sess.Book()

	titleW := 52
	if b.width > 0 && b.width-16 < titleW {
		titleW = b.width - 16
	}

	focusedLabel := lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
	dimLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var out strings.Builder
	out.WriteString(StyleHeader.Render(xansi.Truncate(book.Title, titleW, "…")))
	out.WriteString("\n")
	out.WriteString(StyleHelp.Render(book.Author))
	out.WriteString("\n\n")

	meta := func(label, value string) {
		if value == "" {
			return
		}
		out.WriteString(dimLabel.Render(padOrTruncate(label, 10)))
		out.WriteString(StyleNormal.Render(value))
		out.WriteString("\n")
	}
	meta("Category", book.Category)
	meta("Status", book.Status)
	meta("Publisher", book.Publisher)
	meta("ISBN", book.ISBN)
	meta("Pages", ProgressLabel(book))
	out.WriteString("\n")

	if b.formErr != "" {
		out.WriteString(StyleError.Render("✗ " + b.formErr))
		out.WriteString("\n\n")
	}

	if sess.State() == engine.SessionSaving {
		out.WriteString(b.spin.View())
		out.WriteString(" Saving…\n\n")
		out.WriteString(RenderFooterBar([]ShortcutEntry{
			{Key: "", Label: "esc dismiss"},
		}, b.activeCmd))
	} else {
		if b.focusRating {
			out.WriteString(dimLabel.Render("Pages read") + "\n")
		} else {
			out.WriteString(focusedLabel.Render("› Pages read") + "\n")
		}
		out.WriteString(b.pagesInput.View())
		if book.Pages > 0 {
			out.WriteString(StyleHelp.Render(fmt.Sprintf("  of %d", book.Pages)))
		}
		out.WriteString("\n\n")

		if b.focusRating {
			out.WriteString(focusedLabel.Render("› Rating") + "\n")
		} else {
			out.WriteString(dimLabel.Render("Rating") + "\n")
		}
		out.WriteString("  " + ratingStars(sess.RatingDraft()))
		out.WriteString("\n\n")

		out.WriteString(RenderFooterBar([]ShortcutEntry{
			{Key: "tab", Label: "tab/↑↓ field"},
			{Key: "", Label: "0-5 rate"},
			{Key: "enter", Label: "enter save"},
			{Key: "", Label: "esc cancel"},
		}, b.activeCmd))
	}

	outerPad := lipgloss.NewStyle().Padding(2, 4)
	innerPad := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	return outerPad.Render(StyleBorder.Render(innerPad.Render(out.String())))
}
