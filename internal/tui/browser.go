package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookdeck/bookdeck/internal/engine"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// catalogMsg carries a settled list-books request.
type catalogMsg struct {
	books []engine.Book
	err   error
}

// saveDoneMsg carries a settled save transaction.
type saveDoneMsg struct {
	res engine.SaveResult
}

// Browser is the interactive catalog view: a filterable book list with a
// detail form for the one book open for editing. All engine access happens
// on the bubbletea goroutine; network requests run inside tea.Cmd closures
// and come back as messages.
type Browser struct {
	eng   *engine.Engine
	store engine.Store

	list      list.Model
	search    textinput.Model
	searching bool
	spin      spinner.Model
	loading   bool
	notice    string

	// Detail form state; meaningful while the session is open or saving.
	pagesInput  textinput.Model
	focusRating bool
	formErr     string

	width     int
	height    int
	activeCmd string
}

// NewBrowser creates the browser over an engine and its store.
func NewBrowser(eng *engine.Engine, store engine.Store) Browser {
	l := list.New(nil, bookDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	search := textinput.New()
	search.Placeholder = "title or author"
	search.Prompt = "/ "
	search.CharLimit = 80
	search.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorOrange)

	return Browser{
		eng:     eng,
		store:   store,
		list:    l,
		search:  search,
		spin:    sp,
		loading: true,
	}
}

// RunBrowser starts the interactive browser and blocks until it exits.
func RunBrowser(eng *engine.Engine, store engine.Store) error {
	p := tea.NewProgram(NewBrowser(eng, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func (b Browser) Init() tea.Cmd {
	return tea.Batch(b.spin.Tick, b.fetchCatalog())
}

// fetchCatalog requests the full collection off the UI goroutine.
func (b Browser) fetchCatalog() tea.Cmd {
	store := b.store
	return func() tea.Msg {
		books, err := store.ListBooks(context.Background())
		return catalogMsg{books: books, err: err}
	}
}

// saveCmd executes a save transaction off the UI goroutine. The request is
// a snapshot, so a dismiss racing the save cannot corrupt it.
func saveCmd(req engine.SaveRequest, store engine.Store) tea.Cmd {
	return func() tea.Msg {
		return saveDoneMsg{res: req.Do(context.Background(), store)}
	}
}

func (b Browser) saving() bool {
	return b.eng.Session().State() == engine.SessionSaving
}

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		h, v := StyleBorder.GetFrameSize()
		b.list.SetSize(msg.Width-h, msg.Height-v-6)
		return b, nil

	case ClearActiveCmdMsg:
		b.activeCmd = ""
		return b, nil

	case spinner.TickMsg:
		if b.loading || b.saving() {
			var cmd tea.Cmd
			b.spin, cmd = b.spin.Update(msg)
			return b, cmd
		}
		return b, nil

	case catalogMsg:
		b.loading = false
		b.eng.ApplyRefresh(msg.books, msg.err)
		if msg.err != nil {
			b.notice = "refresh failed, showing last known catalog"
		} else {
			b.notice = ""
		}
		b.syncList()
		return b, nil

	case saveDoneMsg:
		switch b.eng.FinishSave(msg.res) {
		case engine.SaveStale:
			// Superseded by a dismiss or reopen; nothing to show.
		case engine.SaveFailed:
			b.formErr = b.eng.Session().SaveErr().Error()
		case engine.SaveDone:
			b.notice = "Saved."
			b.formErr = ""
			b.syncList()
		}
		return b, nil

	case tea.KeyMsg:
		switch b.eng.Session().State() {
		case engine.SessionOpen:
			return b.updateDetail(msg)
		case engine.SessionSaving:
			// The save runs to completion; dismissing just makes its
			// result stale.
			if msg.String() == "esc" {
				b.eng.Dismiss()
				b.formErr = ""
			}
			return b, nil
		default:
			return b.updateBrowse(msg)
		}
	}

	// Cursor blinks and other component messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	cmds = append(cmds, cmd)
	b.pagesInput, cmd = b.pagesInput.Update(msg)
	cmds = append(cmds, cmd)
	return b, tea.Batch(cmds...)
}

func (b Browser) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.searching {
		switch msg.String() {
		case "enter":
			b.searching = false
			b.search.Blur()
			return b, nil
		case "esc":
			b.searching = false
			b.search.Blur()
			b.search.SetValue("")
			b.eng.SetSearch("")
			b.syncList()
			return b, nil
		default:
			var cmd tea.Cmd
			b.search, cmd = b.search.Update(msg)
			b.eng.SetSearch(b.search.Value())
			b.syncList()
			return b, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return b, tea.Quit

	case "/":
		b.searching = true
		return b, b.search.Focus()

	case "a":
		b.eng.SetMode(engine.ModeAll)
		b.syncList()
		b.activeCmd = "a"
		return b, HighlightCmd()

	case "s":
		b.eng.SetMode(engine.ModeByStatus)
		b.syncList()
		b.activeCmd = "s"
		return b, HighlightCmd()

	case "c":
		b.eng.SetMode(engine.ModeByCategory)
		b.syncList()
		b.activeCmd = "c"
		return b, HighlightCmd()

	case "tab":
		b.cycleValue()
		b.syncList()
		b.activeCmd = "tab"
		return b, HighlightCmd()

	case "r":
		b.loading = true
		return b, tea.Batch(b.spin.Tick, b.fetchCatalog())

	case "enter":
		if item, ok := b.list.SelectedItem().(BookItem); ok {
			if b.eng.OpenBook(item.Book.ID) {
				return b.openDetail()
			}
		}
		return b, nil
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

// cycleValue steps the filter value through the available selections for
// the current mode, with "" (unconstrained) between the last and the first.
func (b *Browser) cycleValue() {
	f := b.eng.Filter()
	var values []string
	switch f.Mode {
	case engine.ModeByStatus:
		for _, s := range b.eng.Statuses() {
			values = append(values, s.ID)
		}
	case engine.ModeByCategory:
		values = b.eng.Categories()
	default:
		return
	}
	if len(values) == 0 {
		return
	}

	next := ""
	if f.Value == "" {
		next = values[0]
	} else {
		for i, v := range values {
			if v == f.Value {
				if i+1 < len(values) {
					next = values[i+1]
				}
				break
			}
		}
	}
	b.eng.SetValue(next)
}

// syncList rebuilds the list items from the engine's visible sequence.
func (b *Browser) syncList() {
	visible := b.eng.Visible()
	items := make([]list.Item, len(visible))
	for i, bk := range visible {
		items[i] = BookItem{Book: bk}
	}
	b.list.SetItems(items)
}

// filterSummary describes the active filter for the header line.
func (b Browser) filterSummary() string {
	f := b.eng.Filter()
	var parts []string
	switch f.Mode {
	case engine.ModeByStatus:
		label := "any"
		if f.Value != "" {
			if l, ok := b.eng.Statuses().Resolve(f.Value); ok {
				label = l
			} else {
				label = f.Value + "?"
			}
		}
		parts = append(parts, "status: "+label)
	case engine.ModeByCategory:
		label := "any"
		if f.Value != "" {
			label = f.Value
		}
		parts = append(parts, "category: "+label)
	default:
		parts = append(parts, "all")
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", f.Search))
	}
	parts = append(parts, fmt.Sprintf("%d/%d", len(b.eng.Visible()), len(b.eng.Catalog())))
	return strings.Join(parts, " · ")
}

func (b Browser) View() string {
	state := b.eng.Session().State()
	if state == engine.SessionOpen || state == engine.SessionSaving {
		return b.viewDetail()
	}

	if b.loading && len(b.eng.Catalog()) == 0 {
		pad := lipgloss.NewStyle().Padding(2, 4)
		return pad.Render(b.spin.View() + " Fetching catalog…")
	}

	var out strings.Builder
	out.WriteString(StyleHeader.Render("bookdeck"))
	out.WriteString("  ")
	out.WriteString(StyleHelp.Render(b.filterSummary()))
	if b.loading {
		out.WriteString("  " + b.spin.View())
	}
	out.WriteString("\n")

	if b.searching || b.search.Value() != "" {
		out.WriteString(b.search.View())
		out.WriteString("\n")
	}

	out.WriteString(RenderColumnHeader(b.list.Width()))
	out.WriteString("\n")
	out.WriteString(b.list.View())
	out.WriteString("\n")

	if b.notice != "" {
		out.WriteString(StyleHelp.Render(b.notice))
		out.WriteString("\n")
	}

	out.WriteString(RenderFooterBar([]ShortcutEntry{
		{Key: "", Label: "/ search"},
		{Key: "a", Label: "a all"},
		{Key: "s", Label: "s status"},
		{Key: "c", Label: "c category"},
		{Key: "tab", Label: "tab value"},
		{Key: "", Label: "enter open"},
		{Key: "", Label: "r refresh"},
		{Key: "", Label: "q quit"},
	}, b.activeCmd))

	return StyleBorder.Render(out.String())
}
