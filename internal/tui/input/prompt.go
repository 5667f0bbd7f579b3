package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/rendezvous/internal/clock"
)

// ErrInvalidRange is returned when a prompt range cannot be parsed.
var ErrInvalidRange = errors.New("range must look like HH:MM-HH:MM")

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// SplitPrompt splits "/name arg..." into the lowercased command name and the
// trimmed remainder.
func SplitPrompt(value string) (name, arg string) {
	value = strings.TrimSpace(value)
	name, arg, _ = strings.Cut(value, " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}

// ParseRange parses "HH:MM-HH:MM". Single-digit hours are accepted.
func ParseRange(s string) (start, end clock.Clock, err error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return clock.Clock{}, clock.Clock{}, fmt.Errorf("%w: got %q", ErrInvalidRange, s)
	}
	if start, err = parseTime(from); err != nil {
		return clock.Clock{}, clock.Clock{}, err
	}
	if end, err = parseTime(to); err != nil {
		return clock.Clock{}, clock.Clock{}, err
	}
	return start, end, nil
}

func parseTime(s string) (clock.Clock, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		s += ":00"
	}
	if len(s) == 4 {
		s = "0" + s
	}
	return clock.Parse(s)
}
