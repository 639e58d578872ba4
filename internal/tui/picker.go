package tui

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sdklocator/internal/sdk"
)

const pickerPageSize = 8

// PickResult holds the candidate selected by the user.
type PickResult struct {
	Cancelled bool
	Candidate sdk.Candidate
}

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Cancel}
}

// candidatePageMsg carries the next batch pulled from the candidate sequence.
type candidatePageMsg struct {
	items []sdk.Candidate
	done  bool
	err   error
}

// pager owns a pulled candidate sequence. Page loads run in bubbletea
// command goroutines and may still be running when the program exits, so
// every pull and the final stop hold mu.
type pager struct {
	mu      sync.Mutex
	next    func() (sdk.Candidate, error, bool)
	stop    func()
	stopped bool
}

func newPager(next func() (sdk.Candidate, error, bool), stop func()) *pager {
	return &pager{next: next, stop: stop}
}

// page pulls up to n candidates. A stopped pager reports an exhausted page.
func (p *pager) page(n int) candidatePageMsg {
	p.mu.Lock()
	defer p.mu.Unlock()

	var page candidatePageMsg
	for len(page.items) < n {
		if p.stopped {
			page.done = true
			break
		}
		c, err, ok := p.next()
		if !ok {
			page.done = true
			break
		}
		if err != nil {
			page.err = err
			page.done = true
			break
		}
		page.items = append(page.items, c)
	}
	return page
}

// close waits for any in-flight page and then stops the sequence.
func (p *pager) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.stop != nil {
		p.stop()
	}
}

type pickerModel struct {
	title     string
	src       *pager
	items     []sdk.Candidate
	cursor    int
	loading   bool
	exhausted bool
	err       error
	done      bool
	cancelled bool
	help      help.Model
}

func newPickerModel(title string, src *pager) pickerModel {
	return pickerModel{title: title, src: src, loading: true, help: help.New()}
}

func (m pickerModel) Init() tea.Cmd {
	return loadPage(m.src)
}

// loadPage pulls one page of candidates. The model starts a new load only
// after the previous page has arrived.
func loadPage(src *pager) tea.Cmd {
	return func() tea.Msg {
		return src.page(pickerPageSize)
	}
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case candidatePageMsg:
		m.loading = false
		m.items = append(m.items, msg.items...)
		m.exhausted = msg.done
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			if m.cursor >= len(m.items)-1 && !m.exhausted && !m.loading {
				m.loading = true
				return m, loadPage(m.src)
			}
		case key.Matches(msg, pickerKeys.Select):
			if len(m.items) == 0 {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		switch {
		case m.loading:
			b.WriteString(FaintStyle.Render("  Searching..."))
		default:
			b.WriteString(StatusStyle("warning").Render("  No valid installations found."))
		}
		b.WriteString("\n")
	}

	for i, c := range m.items {
		cursor := "  "
		line := c.Path
		if i == m.cursor {
			cursor = CursorStyle.Render("> ")
			line = SelectedStyle.Render(line)
		}
		fmt.Fprintf(&b, "%s%s  %s\n", cursor, line, CategoryStyle(c.Source.Category).Render(c.Source.Category.String()))
	}

	if m.err != nil {
		b.WriteString(StatusStyle("error").Render("  error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.loading && len(m.items) > 0:
		b.WriteString(FaintStyle.Render("loading more..."))
	case !m.exhausted:
		b.WriteString(FaintStyle.Render(fmt.Sprintf("%d shown, more available", len(m.items))))
	default:
		b.WriteString(FaintStyle.Render(fmt.Sprintf("%d found", len(m.items))))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(pickerKeys.ShortHelp()))
	b.WriteString("\n")
	return b.String()
}

func (m pickerModel) result() PickResult {
	if !m.done || m.cancelled || len(m.items) == 0 {
		return PickResult{Cancelled: true}
	}
	return PickResult{Candidate: m.items[m.cursor]}
}

// RunPicker lets the user choose one candidate from seq. Candidates are
// pulled a page at a time, so installs further down the priority order are
// only probed when the user scrolls to them.
func RunPicker(in io.Reader, out io.Writer, title string, seq iter.Seq2[sdk.Candidate, error]) (PickResult, error) {
	src := newPager(iter.Pull2(seq))
	defer src.close()

	opts := []tea.ProgramOption{tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	p := tea.NewProgram(newPickerModel(title, src), opts...)
	finalModel, err := p.Run()
	if err != nil {
		return PickResult{}, err
	}
	m := finalModel.(pickerModel)
	if m.err != nil {
		return m.result(), m.err
	}
	return m.result(), nil
}
