// Package chat provides the interactive TUI chat interface for soylem.
// The chat functionality is split across multiple files:
//   - model.go: Types, Init, Update loop (this file)
//   - commands.go: /command handling
//   - process.go: Utterance processing
//   - view.go: Rendering functions
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"soylem/cmd/soylem/ui"
	"soylem/internal/config"
	"soylem/internal/dialogue"
	"soylem/internal/pipeline"
)

// Message is one entry in the visible chat transcript.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
	Time    time.Time
	IsError bool
	Act     dialogue.Act // leading act behind an assistant reply
}

// replyMsg carries a finished pipeline run back into the update loop.
type replyMsg struct {
	result *pipeline.Result
}

// configReloadedMsg is sent by the config watcher on a successful reload.
type configReloadedMsg struct {
	cfg *config.PipelineConfig
}

// Model is the main model for the interactive chat interface.
type Model struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles

	pipe    *pipeline.Pipeline
	cfg     *config.PipelineConfig
	cfgPath string

	history    []Message
	lastResult *pipeline.Result
	debugMode  bool
	isLoading  bool
	width      int
	height     int
	ready      bool
}

// New builds the chat model around a fresh pipeline.
func New(cfg *config.PipelineConfig, cfgPath string) (Model, error) {
	pipe, err := pipeline.New(cfg)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "Bir sey yazin... (/help komutlar icin)"
	ti.Focus()
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		textinput: ti,
		spinner:   sp,
		styles:    ui.NewStyles(),
		pipe:      pipe,
		cfg:       cfg,
		cfgPath:   cfgPath,
	}
	m.history = append(m.history, Message{
		Role:    "assistant",
		Content: "Merhaba! Ben Soylem. Turkce konusabiliriz.",
		Time:    time.Now(),
	})
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.textinput.Width = msg.Width - 6
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.isLoading {
				return m, nil
			}
			input := strings.TrimSpace(m.textinput.Value())
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			m.history = append(m.history, Message{Role: "user", Content: input, Time: time.Now()})
			m.textinput.Reset()
			m.isLoading = true
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, m.processInput(input))
		}

	case spinner.TickMsg:
		if m.isLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case replyMsg:
		m.isLoading = false
		m.lastResult = msg.result
		var act dialogue.Act
		if msg.result.Success && msg.result.ActSelection != nil {
			act = msg.result.ActSelection.TopAct()
		}
		m.history = append(m.history, Message{
			Role:    "assistant",
			Content: msg.result.Output,
			Time:    time.Now(),
			IsError: !msg.result.Success,
			Act:     act,
		})
		if m.debugMode {
			m.history = append(m.history, Message{
				Role:    "system",
				Content: renderDebugInfo(m.pipe.DebugInfo(msg.result)),
				Time:    time.Now(),
			})
		}
		m.refreshViewport()
		return m, nil

	case configReloadedMsg:
		return m.applyConfig(msg.cfg, "Yapilandirma yeniden yuklendi.")
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// applyConfig swaps in a rebuilt pipeline for the new config.
func (m Model) applyConfig(cfg *config.PipelineConfig, note string) (tea.Model, tea.Cmd) {
	pipe, err := pipeline.New(cfg)
	if err != nil {
		m.history = append(m.history, Message{
			Role:    "system",
			Content: "Yapilandirma uygulanamadi: " + err.Error(),
			Time:    time.Now(),
			IsError: true,
		})
		m.refreshViewport()
		return m, nil
	}
	old := m.pipe
	m.pipe = pipe
	m.cfg = cfg
	if old != nil {
		old.Close()
	}
	m.history = append(m.history, Message{Role: "system", Content: note, Time: time.Now()})
	m.refreshViewport()
	return m, nil
}

// turns converts the transcript into pipeline history, skipping system
// notes.
func (m Model) turns() []dialogue.Turn {
	var out []dialogue.Turn
	for _, msg := range m.history {
		if msg.Role != "user" && msg.Role != "assistant" {
			continue
		}
		out = append(out, dialogue.Turn{Role: msg.Role, Content: msg.Content, Act: msg.Act})
	}
	return out
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// Run starts the interactive chat and blocks until the user quits. When
// cfgPath is set, config file edits hot-swap the pipeline.
func Run(cfg *config.PipelineConfig, cfgPath string) error {
	m, err := New(cfg, cfgPath)
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithAltScreen())

	if cfgPath != "" {
		watcher, err := config.NewWatcher(cfgPath, func(cfg *config.PipelineConfig) {
			program.Send(configReloadedMsg{cfg: cfg})
		})
		if err != nil {
			return err
		}
		if err := watcher.Start(context.Background()); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	final, err := program.Run()
	if fm, ok := final.(Model); ok && fm.pipe != nil {
		fm.pipe.Close()
	}
	return err
}
