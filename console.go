// console.go: Local console mirror of every log call
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ConsoleSink receives a copy of every Log call, whether or not the logger
// is initialized and whatever the state of the network.
type ConsoleSink interface {
	WriteEntry(level Level, message string)
}

// DiscardConsole drops every line.
var DiscardConsole ConsoleSink = discardConsole{}

type discardConsole struct{}

func (discardConsole) WriteEntry(Level, string) {}

// levelColors are the ANSI colors of each level: bright black, green,
// yellow, red and bright red.
var levelColors = map[Level]lipgloss.Color{
	DebugLevel:    lipgloss.Color("8"),
	InfoLevel:     lipgloss.Color("2"),
	WarningLevel:  lipgloss.Color("3"),
	ErrorLevel:    lipgloss.Color("1"),
	CriticalLevel: lipgloss.Color("9"),
}

// Console writes "[LEVEL] message" lines to an io.Writer, colored by level
// when the writer is a color-capable terminal.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	styles   map[Level]lipgloss.Style
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor forces colors on or off instead of detecting the terminal.
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) {
		if enabled {
			c.renderer.SetColorProfile(termenv.ANSI)
		} else {
			c.renderer.SetColorProfile(termenv.Ascii)
		}
	}
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		w:        w,
		renderer: lipgloss.NewRenderer(w),
		styles:   make(map[Level]lipgloss.Style, len(Levels)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, level := range Levels {
		c.styles[level] = c.renderer.NewStyle().Foreground(levelColors[level])
	}
	return c
}

// WriteEntry implements ConsoleSink. Write errors are ignored: the console
// is best effort.
func (c *Console) WriteEntry(level Level, message string) {
	line := "[" + level.String() + "] " + message
	if style, ok := c.styles[level]; ok {
		line = style.Render(line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, line+"\n")
}
