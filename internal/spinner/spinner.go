// Package spinner shows a one-line run status in the terminal: a spinner, a
// title with the running totals, and the latest status line of the bot.
package spinner

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const separator = " │ "

var titleStyle = lipgloss.NewStyle().Bold(true)

// Spinner renders status lines written to Writer() next to a spinner,
// redrawing in place.
type Spinner struct {
	program *tea.Program
	reader  *io.PipeReader
	writer  *io.PipeWriter
	lineCh  chan string
	done    chan struct{}
	ready   chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	output  io.Writer
	title   string
}

// New creates a Spinner that draws to output (os.Stderr when nil).
func New(output io.Writer, title string) *Spinner {
	if output == nil {
		output = os.Stderr
	}

	reader, writer := io.Pipe()
	return &Spinner{
		reader: reader,
		writer: writer,
		lineCh: make(chan string, 100),
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
		output: output,
		title:  title,
	}
}

// Enabled reports whether f is an interactive terminal a spinner can draw on.
func Enabled(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Writer returns the writer whose lines appear as the status line.
func (s *Spinner) Writer() io.Writer {
	return s.writer
}

// SetTitle replaces the title shown before the status line.
func (s *Spinner) SetTitle(title string) {
	<-s.ready
	s.program.Send(titleMsg(title))
}

// Start draws the spinner until Stop is called. It blocks, so run it in a
// goroutine while the work happens.
func (s *Spinner) Start() error {
	s.wg.Add(1)
	go s.readLines()

	width := 80
	if fd := int(os.Stderr.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	s.program = tea.NewProgram(newModel(s.lineCh, s.title, width),
		tea.WithOutput(s.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	close(s.ready)

	_, err := s.program.Run()
	s.wg.Wait()
	return err
}

// Stop clears the spinner line and releases resources. Safe to call twice.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		_ = s.writer.Close()
		close(s.done)

		select {
		case <-s.ready:
			s.program.Quit()
		default:
		}
	})
}

func (s *Spinner) readLines() {
	defer s.wg.Done()
	defer close(s.lineCh)
	defer s.reader.Close()

	scanner := bufio.NewScanner(s.reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case s.lineCh <- line:
		case <-s.done:
			return
		}
	}
}

type model struct {
	spinner  spinner.Model
	title    string
	status   string
	width    int
	lineCh   <-chan string
	quitting bool
}

type (
	lineMsg  string
	titleMsg string
)

func newModel(lineCh <-chan string, title string, width int) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner: s,
		title:   title,
		width:   width,
		lineCh:  lineCh,
	}
}

//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForLine(m.lineCh))
}

//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case lineMsg:
		m.status = string(msg)
		return m, waitForLine(m.lineCh)

	case titleMsg:
		m.title = string(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.QuitMsg:
		m.quitting = true
	}

	return m, nil
}

//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) View() string {
	if m.quitting {
		return ""
	}

	// spinner glyph plus a space
	avail := max(m.width-2, 10)

	title := truncate(m.title, avail)
	line := titleStyle.Render(title)
	if m.status != "" {
		rest := avail - len([]rune(title))
		if title != "" {
			rest -= len([]rune(separator))
			line += separator
		}
		line += truncate(m.status, rest)
	}
	return m.spinner.View() + " " + line
}

func waitForLine(lineCh <-chan string) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-lineCh
		if !ok {
			return tea.Quit()
		}
		return lineMsg(line)
	}
}

// truncate shortens s to maxWidth runes, ending in "..." when cut.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxWidth {
		return s
	}
	return string(r[:maxWidth-3]) + "..."
}
