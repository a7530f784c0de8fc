// Package chat provides the interactive TUI chat interface for soylem.
// This file contains view rendering functions.
package chat

import (
	"fmt"
	"sort"
	"strings"
)

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			sb.WriteString(m.styles.UserLabel.Render("Siz") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Content))
			sb.WriteString("\n")

		case "system":
			sb.WriteString(m.styles.MutedText.Render(indent(msg.Content)))
			sb.WriteString("\n")

		default: // "assistant"
			sb.WriteString(m.styles.AssistantLabel.Render("Soylem") + "\n")
			if msg.IsError {
				sb.WriteString(m.styles.WarningText.Render(msg.Content))
			} else {
				sb.WriteString(msg.Content)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Baslatiliyor..."
	}

	header := m.styles.Bold.Render(" soylem") + m.styles.MutedText.Render("  dusunceden konusmaya")

	status := ""
	if m.isLoading {
		status = m.spinner.View() + " dusunuyorum..."
	}

	footer := m.styles.InputBox.Width(m.width - 2).Render(m.textinput.View())
	hint := m.styles.MutedText.Render(" enter gonder | /help komutlar | ctrl+c cikis")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, m.viewport.View(), status, footer, hint)
}

// renderInfo flattens the pipeline info map for display.
func renderInfo(info map[string]interface{}) string {
	var sb strings.Builder
	sb.WriteString("Hat kurulumu:\n")
	writeSorted(&sb, info, "  ")
	return strings.TrimRight(sb.String(), "\n")
}

// renderDebugInfo flattens one result trace for display.
func renderDebugInfo(info map[string]interface{}) string {
	var sb strings.Builder
	sb.WriteString("Asama dokumu:\n")
	writeSorted(&sb, info, "  ")
	return strings.TrimRight(sb.String(), "\n")
}

func writeSorted(sb *strings.Builder, m map[string]interface{}, prefix string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if nested, ok := m[k].(map[string]interface{}); ok {
			fmt.Fprintf(sb, "%s%s:\n", prefix, k)
			writeSorted(sb, nested, prefix+"  ")
			continue
		}
		fmt.Fprintf(sb, "%s%s: %v\n", prefix, k, m[k])
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
