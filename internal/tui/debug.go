package tui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/rendezvous/internal/availability"
	"github.com/javiermolinar/rendezvous/internal/dateutil"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "rendezvous-debug.log"

var (
	debugLog  = slog.New(slog.DiscardHandler)
	debugFile *os.File
)

// InitDebugLogger routes picker events to DebugLogPath as JSON lines when
// enabled. The terminal is owned by the TUI, so nothing is written there.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = slog.New(slog.DiscardHandler)
		return nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugFile = f
	debugLog = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	debugLog.Debug("debug start", "log_file", DebugLogPath, "time", time.Now().Format(time.RFC3339))
	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugFile == nil {
		return
	}
	debugLog.Debug("debug end", "time", time.Now().Format(time.RFC3339))
	_ = debugFile.Close()
	debugFile = nil
	debugLog = slog.New(slog.DiscardHandler)
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg, mode Mode) {
	debugLog.Debug("key press", "key", msg.String(), "mode", mode.String())
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	debugLog.Debug("mode change", "from", from.String(), "to", to.String(), "reason", reason)
}

// LogCursorMove logs cursor movement.
func LogCursorMove(pos Position, reason string) {
	debugLog.Debug("cursor move", "day", pos.Day, "slot", pos.Slot, "reason", reason)
}

// LogSelection logs the ranges of a day after an edit.
func LogSelection(sel *availability.DaySelection, action string) {
	ranges := make([]string, 0, len(sel.Ranges()))
	for _, r := range sel.Ranges() {
		ranges = append(ranges, r.String())
	}
	debugLog.Debug("selection",
		"action", action,
		"date", sel.Date().Format(dateutil.DateLayout),
		"ranges", ranges)
}

// LogError logs an error.
func LogError(context string, err error) {
	debugLog.Debug("error", "context", context, "error", err.Error())
}
