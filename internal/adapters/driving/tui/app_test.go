package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
	"github.com/custodia-labs/growthpilot-cli/internal/metrics"
)

// mockAssistant is a test double for driving.AssistantService.
type mockAssistant struct {
	answer    *domain.Answer
	err       error
	questions []string
	lastCtx   domain.AskContext
}

func (m *mockAssistant) Ask(_ context.Context, question string, askCtx domain.AskContext) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	m.lastCtx = askCtx
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAssistant) Metrics() metrics.Report { return metrics.Report{} }

func (m *mockAssistant) Health() metrics.Health { return metrics.Health{} }

func newTestApp(t *testing.T, assistant *mockAssistant, askCtx domain.AskContext) *App {
	t.Helper()
	app, err := NewApp(&Ports{Assistant: assistant}, askCtx)
	require.NoError(t, err)
	return app
}

func TestNewApp_RequiresAssistant(t *testing.T) {
	_, err := NewApp(&Ports{}, domain.AskContext{})
	require.ErrorIs(t, err, ErrMissingAssistantService)
}

func TestApp_NotReadyBeforeWindowSize(t *testing.T) {
	app := newTestApp(t, &mockAssistant{}, domain.AskContext{})

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app = model.(*App)

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "GrowthPilot Assistant")
}

func TestApp_EnterSubmitsQuestion(t *testing.T) {
	assistant := &mockAssistant{
		answer: &domain.Answer{
			Answer: "Your core offer is the Pro Plan at $49/mo.",
			Sources: []domain.Source{
				{ID: "off1", EntityType: "Offer", Title: "Pro Plan", URL: "/profile"},
			},
		},
	}
	app := newTestApp(t, assistant, domain.AskContext{CampaignID: "camp1"})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app = model.(*App)

	app.input.SetValue("what do we sell?")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.True(t, app.Waiting())
	require.NotNil(t, cmd)

	// Run the batched command and feed the answer back in.
	msg := findAnswer(t, cmd())
	model, _ = app.Update(msg)
	app = model.(*App)

	assert.False(t, app.Waiting())
	require.Equal(t, []string{"what do we sell?"}, assistant.questions)
	assert.Equal(t, "camp1", assistant.lastCtx.CampaignID)

	view := app.View()
	assert.Contains(t, view, "You: what do we sell?")
	assert.Contains(t, view, "Pro Plan")
	assert.Contains(t, view, "/profile")
}

func TestApp_EmptyQuestionIgnored(t *testing.T) {
	app := newTestApp(t, &mockAssistant{}, domain.AskContext{})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)

	app.input.SetValue("   ")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.False(t, app.Waiting())
	assert.Nil(t, cmd)
}

func TestApp_EnterWhileWaitingIgnored(t *testing.T) {
	app := newTestApp(t, &mockAssistant{answer: &domain.Answer{Answer: "ok"}}, domain.AskContext{})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)

	app.input.SetValue("first")
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	require.True(t, app.Waiting())

	app.input.SetValue("second")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.True(t, app.Waiting())
	assert.Nil(t, cmd)
}

func TestApp_ErrorRendersInTranscript(t *testing.T) {
	assistant := &mockAssistant{err: errors.New("model unavailable")}
	app := newTestApp(t, assistant, domain.AskContext{})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)

	app.input.SetValue("anything")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	msg := findAnswer(t, cmd())
	model, _ = app.Update(msg)
	app = model.(*App)

	assert.Contains(t, app.View(), "model unavailable")
}

func TestApp_CachedAnswerMarked(t *testing.T) {
	assistant := &mockAssistant{answer: &domain.Answer{Answer: "hi", Cached: true}}
	app := newTestApp(t, assistant, domain.AskContext{})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)

	app.input.SetValue("hello")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	msg := findAnswer(t, cmd())
	model, _ = app.Update(msg)
	app = model.(*App)

	assert.Contains(t, app.View(), "(cached)")
}

func TestApp_EscQuits(t *testing.T) {
	app := newTestApp(t, &mockAssistant{}, domain.AskContext{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// findAnswer digs the answerReceived message out of a possibly batched
// command result.
func findAnswer(t *testing.T, msg tea.Msg) answerReceived {
	t.Helper()

	switch m := msg.(type) {
	case answerReceived:
		return m
	case tea.BatchMsg:
		for _, cmd := range m {
			if cmd == nil {
				continue
			}
			if answer, ok := cmd().(answerReceived); ok {
				return answer
			}
		}
	}
	t.Fatalf("no answerReceived in %T", msg)
	return answerReceived{}
}

func TestTranscript_MultipleExchanges(t *testing.T) {
	assistant := &mockAssistant{answer: &domain.Answer{Answer: "first answer"}}
	app := newTestApp(t, assistant, domain.AskContext{})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)

	for _, q := range []string{"question one", "question two"} {
		app.input.SetValue(q)
		model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
		app = model.(*App)
		msg := findAnswer(t, cmd())
		model, _ = app.Update(msg)
		app = model.(*App)
	}

	view := app.View()
	assert.Contains(t, view, "question one")
	assert.Contains(t, view, "question two")
	assert.Equal(t, 2, strings.Count(view, "first answer"))
}
