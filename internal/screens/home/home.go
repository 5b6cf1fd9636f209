package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnify/internal/pipeline"
	"github.com/abhisek/learnify/internal/router"
	"github.com/abhisek/learnify/internal/screen"
	answerscreen "github.com/abhisek/learnify/internal/screens/answers"
	coachingscreen "github.com/abhisek/learnify/internal/screens/coaching"
	"github.com/abhisek/learnify/internal/screens/history"
	"github.com/abhisek/learnify/internal/screens/intake"
	"github.com/abhisek/learnify/internal/screens/results"
	weightscreen "github.com/abhisek/learnify/internal/screens/weights"
	"github.com/abhisek/learnify/internal/store"
	"github.com/abhisek/learnify/internal/ui/components"
)

// Deps are what the home screen and the screens it opens need.
type Deps struct {
	Pipeline  *pipeline.Pipeline
	Runs      store.RunRepo
	Artifacts store.ArtifactRepo
	// Threshold is the average below which a level is a focus area.
	Threshold float64
	// LLMReady is false when no model provider is configured.
	LLMReady bool
}

const (
	itemNew = iota
	itemContinue
	itemRuns
	itemWeights
	itemExit
)

var menuLabels = []string{"NEW RUN", "CONTINUE", "PAST RUNS", "WEIGHTS", "EXIT"}

type runCountMsg int

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	runCount int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	items := make([]components.MenuItem, len(menuLabels))
	for i, label := range menuLabels {
		i := i
		items[i] = components.MenuItem{Label: label, Action: func() tea.Cmd { return h.open(i) }}
	}
	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

// refresh recomputes which menu items are available.
func (h *HomeScreen) refresh() {
	p := h.deps.Pipeline
	h.menu.Items[itemNew].Disabled = !h.deps.LLMReady
	h.menu.Items[itemContinue].Disabled = p.State().Stage() == pipeline.StageNew
	h.menu.Items[itemRuns].Disabled = h.deps.Runs == nil
	if h.menu.Items[h.menu.Selected].Disabled {
		for i, it := range h.menu.Items {
			if !it.Disabled {
				h.menu.Selected = i
				break
			}
		}
	}
}

func (h *HomeScreen) open(item int) tea.Cmd {
	var next screen.Screen
	switch item {
	case itemNew:
		if h.deps.Pipeline.State().Stage() != pipeline.StageNew {
			h.deps.Pipeline.Reset()
		}
		next = h.intakeScreen()
	case itemContinue:
		next = h.resumeScreen()
	case itemRuns:
		next = history.New(h.deps.Runs, h.deps.Artifacts)
	case itemWeights:
		next = weightscreen.New(h.deps.Pipeline)
	case itemExit:
		return tea.Quit
	}
	if next == nil {
		return nil
	}
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) intakeScreen() screen.Screen {
	return intake.New(h.deps.Pipeline, func() screen.Screen { return h.answersScreen() })
}

func (h *HomeScreen) answersScreen() screen.Screen {
	return answerscreen.New(h.deps.Pipeline, func(notice string) screen.Screen { return h.resultsScreen(notice) })
}

func (h *HomeScreen) resultsScreen(notice string) screen.Screen {
	p := h.deps.Pipeline
	return results.New(p, h.deps.Threshold, results.Routes{
		Weights:  func() screen.Screen { return weightscreen.New(p) },
		Coaching: func() screen.Screen { return coachingscreen.New(p) },
	}, notice)
}

// resumeScreen picks the screen for the furthest stage the run reached.
func (h *HomeScreen) resumeScreen() screen.Screen {
	switch h.deps.Pipeline.State().Stage() {
	case pipeline.StageNew:
		return nil
	case pipeline.StageIngested:
		return h.intakeScreen()
	case pipeline.StageExpanded:
		return h.answersScreen()
	default:
		return h.resultsScreen("")
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.countRuns()
}

func (h *HomeScreen) countRuns() tea.Cmd {
	if h.deps.Runs == nil {
		return nil
	}
	repo := h.deps.Runs
	return func() tea.Msg {
		runs, err := repo.List(context.Background(), 0)
		if err != nil {
			return runCountMsg(0)
		}
		return runCountMsg(len(runs))
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if n, ok := msg.(runCountMsg); ok {
		h.runCount = int(n)
		return h, nil
	}
	h.refresh()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)
	st := h.deps.Pipeline.State()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(), cw))
	}

	sections = append(sections, renderStatsBar(runStats{
		Stage:     string(st.Stage()),
		Composite: st.Composite(),
		Runs:      h.runCount,
	}, cw, compact))

	if !h.deps.LLMReady {
		sections = append(sections, renderLLMBanner(cw))
	}

	disabled := make(map[int]bool)
	for i, it := range h.menu.Items {
		disabled[i] = it.Disabled
	}
	if termHeight < 34 {
		sections = append(sections, renderMenuCompact(menuLabels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderMenu(menuLabels, h.menu.Selected, cw, disabled))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) mascot() MascotVariant {
	if !h.deps.LLMReady {
		return MascotAlert
	}
	if c := h.deps.Pipeline.State().Composite(); c != nil && *c >= 4 {
		return MascotCelebrating
	}
	return MascotIdle
}

func (h *HomeScreen) Title() string {
	return "Home"
}
