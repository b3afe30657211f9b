package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/hookscope/internal/domain"
)

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#95A5A6"))
)

// colorEnabled reports whether w is a terminal worth styling.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// statusLabel renders a status word, styled only on a terminal.
func statusLabel(w io.Writer, status domain.Status) string {
	label := string(status)
	if !colorEnabled(w) {
		return label
	}
	switch status {
	case domain.StatusPass:
		return passStyle.Render(label)
	case domain.StatusWarn:
		return warnStyle.Render(label)
	case domain.StatusFail:
		return failStyle.Render(label)
	default:
		return errorStyle.Render(label)
	}
}

func dim(w io.Writer, s string) string {
	if !colorEnabled(w) {
		return s
	}
	return dimStyle.Render(s)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
