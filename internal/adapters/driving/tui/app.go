package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/growthpilot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

// answerReceived carries the assistant response back to the model.
type answerReceived struct {
	question string
	answer   *domain.Answer
	err      error
}

// entry is one question/answer exchange in the transcript.
type entry struct {
	question string
	answer   *domain.Answer
	err      error
}

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// askCtx scopes every question to a workspace/campaign.
	askCtx domain.AskContext

	// styles holds the UI styles.
	styles *styles.Styles

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// entries is the conversation transcript, oldest first.
	entries []entry

	// waiting is true while a question is in flight.
	waiting bool

	// pending is the question currently being answered.
	pending string

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports, askCtx domain.AskContext) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about your campaigns, offers, audience..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		askCtx:  askCtx,
		styles:  s,
		input:   ti,
		spinner: sp,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("growthpilot - Workspace Assistant"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit

		case tea.KeyEnter:
			if a.waiting {
				return a, nil
			}
			question := strings.TrimSpace(a.input.Value())
			if question == "" {
				return a, nil
			}
			a.waiting = true
			a.pending = question
			a.input.Reset()
			return a, tea.Batch(a.spinner.Tick, a.ask(question))
		}

		// Arrow and page keys scroll the transcript; everything else is
		// typing. The viewport must not see runes - its default keymap
		// binds space and letters to scrolling.
		switch msg.Type {
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}

		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case answerReceived:
		a.waiting = false
		a.pending = ""
		a.entries = append(a.entries, entry{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		a.refreshTranscript()
		a.viewport.GotoBottom()
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// ask dispatches the question to the assistant off the UI loop.
func (a *App) ask(question string) tea.Cmd {
	ctx := a.ctx
	askCtx := a.askCtx
	return func() tea.Msg {
		answer, err := a.ports.Assistant.Ask(ctx, question, askCtx)
		return answerReceived{question: question, answer: answer, err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("GrowthPilot Assistant"))
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	b.WriteString("\n")
	b.WriteString(a.styles.InputField.Render(a.input.View()))
	return b.String()
}

func (a *App) statusLine() string {
	if a.waiting {
		return a.styles.StatusBar.Render(a.spinner.View() + " thinking...")
	}
	return a.styles.Help.Render("enter: send • ↑/↓: scroll • esc: quit")
}

// refreshTranscript re-renders the conversation into the viewport.
func (a *App) refreshTranscript() {
	width := a.viewport.Width
	if width <= 0 {
		width = 80
	}

	var sections []string
	for _, e := range a.entries {
		var b strings.Builder
		b.WriteString(a.styles.Question.Render("You: " + e.question))
		b.WriteString("\n")

		switch {
		case e.err != nil:
			b.WriteString(a.styles.Error.Render("Error: " + e.err.Error()))
		case e.answer != nil:
			b.WriteString(a.styles.Answer.Width(width).Render(e.answer.Answer))
			for _, src := range e.answer.Sources {
				title := src.Title
				if title == "" {
					title = src.ID
				}
				b.WriteString("\n")
				b.WriteString(a.styles.Source.Render(fmt.Sprintf("→ %s (%s) %s", title, src.EntityType, src.URL)))
			}
			if e.answer.Cached {
				b.WriteString("\n")
				b.WriteString(a.styles.Muted.Render("(cached)"))
			}
		}
		sections = append(sections, b.String())
	}

	a.viewport.SetContent(strings.Join(sections, "\n\n"))
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// Title, status line, and bordered input take a fixed number of rows.
	const chromeHeight = 6
	vpHeight := height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	a.viewport.Width = width
	a.viewport.Height = vpHeight

	inputWidth := width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	a.input.Width = inputWidth

	a.refreshTranscript()
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Waiting returns whether a question is in flight.
func (a *App) Waiting() bool {
	return a.waiting
}
