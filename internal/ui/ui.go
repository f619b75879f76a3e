// Package ui renders the MAJI client in a terminal.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"maji/local-app/internal/model"
)

var ErrNotTerminal = errors.New("input is not a terminal")

type UI struct {
	mu       sync.Mutex
	writer   io.Writer
	useColor bool
}

func NewUI(w io.Writer, useColor bool) *UI {
	return &UI{writer: w, useColor: useColor}
}

// ColorSupported reports whether f is a terminal that should get colors.
func ColorSupported(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (u *UI) colorize(message string, color Color) string {
	if !u.useColor || color == ColorDefault {
		return message
	}
	return fmt.Sprintf("%s%s%s", color, message, ColorDefault)
}

func (u *UI) Print(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprint(u.writer, message)
}

func (u *UI) Printf(format string, args ...interface{}) {
	u.Print(fmt.Sprintf(format, args...))
}

func (u *UI) Println(message string) {
	u.Print(message + "\n")
}

func (u *UI) PrintColored(message string, color Color) {
	u.Print(u.colorize(message, color))
}

func (u *UI) PrintlnColored(message string, color Color) {
	u.Print(u.colorize(message, color) + "\n")
}

// Message prints a plain formatted line.
func (u *UI) Message(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	u.Print(msg)
}

func (u *UI) Error(message string) {
	u.Notification(&model.Notification{Kind: model.KindError, Message: message})
}

func (u *UI) Success(message string) {
	u.Notification(&model.Notification{Kind: model.KindSuccess, Message: message})
}

func (u *UI) Warning(message string) {
	u.Notification(&model.Notification{Kind: model.KindWarning, Message: message})
}

func (u *UI) Info(message string) {
	u.PrintlnColored(message, ColorGray)
}

// Notification prints the current notification. A nil notification means the
// channel was cleared and prints nothing.
func (u *UI) Notification(n *model.Notification) {
	if n == nil {
		return
	}
	style, ok := kindStyles[n.Kind]
	if !ok {
		style = kindStyles[model.KindInfo]
	}

	var b strings.Builder
	b.WriteString(u.colorize(style.marker, style.markerColor))
	b.WriteString(" ")
	if n.Title != "" {
		b.WriteString(u.colorize(n.Title+":", ColorBold))
		b.WriteString(" ")
	}
	b.WriteString(u.colorize(n.Message, style.textColor))
	b.WriteString("\n")
	u.Print(b.String())
}

// GetPromptString builds the prompt from the logged-in user, the current
// route and whether a request is in flight.
func (u *UI) GetPromptString(user, route string, loading bool) string {
	var promptBuilder strings.Builder
	if user != "" {
		promptBuilder.WriteString(u.colorize(user, ColorLightBlue))
		promptBuilder.WriteString(u.colorize(" @ ", ColorWhite))
	}
	promptBuilder.WriteString(u.colorize(route, ColorLightPurple))
	if loading {
		promptBuilder.WriteString(u.colorize(" …", ColorLightYellow))
	}
	promptBuilder.WriteString(u.colorize(" > ", ColorGreen))
	return promptBuilder.String()
}

// ReadPassword reads a password from stdin without echoing it.
func (u *UI) ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}
	u.Print(prompt)

	password, err := term.ReadPassword(fd)
	u.Println("") // Print a newline after the password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}
