// Package chat provides the interactive TUI chat interface for soylem.
// This file contains /command handling.
package chat

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"soylem/internal/config"
)

const helpText = `Komutlar:

  /help            bu listeyi goster
  /clear           gecmisi temizle
  /good            son yaniti begen
  /bad             son yaniti begenme
  /debug           asama dokumunu ac/kapat
  /info            hat kurulumunu goster
  /preset <ad>     minimal, strict veya balanced moduna gec
  /quit            cikis`

// handleCommand processes all /command inputs from the user.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]
	m.textinput.Reset()

	switch cmd {
	case "/quit", "/exit", "/q":
		return m, tea.Quit

	case "/clear":
		m.history = nil
		m.lastResult = nil
		m.refreshViewport()
		return m, nil

	case "/help":
		return m.addSystemNote(helpText)

	case "/good":
		return m.recordVerdict(true)

	case "/bad":
		return m.recordVerdict(false)

	case "/debug":
		m.debugMode = !m.debugMode
		if m.debugMode {
			return m.addSystemNote("Asama dokumu acik.")
		}
		return m.addSystemNote("Asama dokumu kapali.")

	case "/info":
		return m.addSystemNote(renderInfo(m.pipe.Info()))

	case "/preset":
		if len(parts) < 2 {
			return m.addSystemNote("Kullanim: /preset minimal|strict|balanced")
		}
		cfg, err := config.Preset(parts[1])
		if err != nil {
			return m.addSystemNote("Bilinmeyen mod: " + parts[1])
		}
		return m.applyConfig(cfg, fmt.Sprintf("'%s' moduna gecildi.", parts[1]))

	default:
		return m.addSystemNote("Bilinmeyen komut: " + cmd + " (/help komutlar icin)")
	}
}

// recordVerdict applies explicit feedback to the constructions behind
// the last reply.
func (m Model) recordVerdict(positive bool) (tea.Model, tea.Cmd) {
	if m.lastResult == nil || len(m.lastResult.ConstructionsUsed) == 0 {
		return m.addSystemNote("Geri bildirim verilecek bir yanit yok.")
	}

	ids := make([]string, 0, len(m.lastResult.ConstructionsUsed))
	for _, c := range m.lastResult.ConstructionsUsed {
		ids = append(ids, c.ID)
	}
	if err := m.pipe.RecordExplicitFeedback(ids, positive); err != nil {
		return m.addSystemNote("Geri bildirim kaydedilemedi: " + err.Error())
	}

	if positive {
		return m.addSystemNote("Tesekkurler, geri bildirim kaydedildi. (+)")
	}
	return m.addSystemNote("Tesekkurler, geri bildirim kaydedildi. (-)")
}

func (m Model) addSystemNote(content string) (tea.Model, tea.Cmd) {
	m.history = append(m.history, Message{Role: "system", Content: content, Time: time.Now()})
	m.refreshViewport()
	return m, nil
}
