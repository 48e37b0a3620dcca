package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Impact tags a haptic pulse intensity.
type Impact string

const (
	ImpactLight   Impact = "light"
	ImpactMedium  Impact = "medium"
	ImpactSuccess Impact = "success"
)

// Host is the capability surface the surrounding chrome provides: blocking
// dialogs, haptics, and the optional persistent buttons. Flows depend only on
// this interface; the implementation is selected once at startup.
type Host interface {
	Alert(msg string)
	Confirm(msg string) bool
	Haptic(kind Impact)
	ShowMainButton(label string, onClick func())
	HideMainButton()
	ShowBackButton(onClick func())
	HideBackButton()
	Close()
}

// TerminalHost is the standalone fallback implementation, the equivalent of
// browser-native alert/confirm when no embedding host exists.
type TerminalHost struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalHost wires a host over the given streams.
func NewTerminalHost(in io.Reader, out io.Writer) *TerminalHost {
	return &TerminalHost{in: bufio.NewReader(in), out: out}
}

// Alert prints the message.
func (h *TerminalHost) Alert(msg string) {
	fmt.Fprintf(h.out, "! %s\n", msg)
}

// Confirm asks for a yes/no answer; anything but y/yes declines.
func (h *TerminalHost) Confirm(msg string) bool {
	fmt.Fprintf(h.out, "%s [y/N]: ", msg)
	line, err := h.in.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Haptic is a no-op on a terminal.
func (h *TerminalHost) Haptic(Impact) {}

// ShowMainButton renders the action hint; the terminal has no persistent button.
func (h *TerminalHost) ShowMainButton(label string, _ func()) {
	fmt.Fprintf(h.out, "[%s]\n", label)
}

// HideMainButton is a no-op on a terminal.
func (h *TerminalHost) HideMainButton() {}

// ShowBackButton is a no-op on a terminal.
func (h *TerminalHost) ShowBackButton(func()) {}

// HideBackButton is a no-op on a terminal.
func (h *TerminalHost) HideBackButton() {}

// Close is a no-op on a terminal.
func (h *TerminalHost) Close() {}
