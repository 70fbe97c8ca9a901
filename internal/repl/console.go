package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the console styling used on a terminal.
type Styles struct {
	Prompt lipgloss.Style
	Label  lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
}

var (
	colorTeal  = lipgloss.Color("#20B9B4")
	colorError = lipgloss.Color("#E74C3C")
	colorSlate = lipgloss.Color("#2C4A54")
)

// DefaultStyles is used when the console is attached to a terminal.
var DefaultStyles = Styles{
	Prompt: lipgloss.NewStyle().Bold(true).Foreground(colorTeal),
	Label:  lipgloss.NewStyle().Bold(true),
	Error:  lipgloss.NewStyle().Foreground(colorError),
	Muted:  lipgloss.NewStyle().Foreground(colorSlate),
}

// Console is line-based operator I/O. It implements compare.Confirmer.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	styles *Styles
	echo   bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithStyles enables styled output.
func WithStyles(s Styles) ConsoleOption {
	return func(c *Console) { c.styles = &s }
}

// WithEcho writes every line read back to the output, so a transcript of
// scripted input reads like an interactive session.
func WithEcho() ConsoleOption {
	return func(c *Console) { c.echo = true }
}

// NewConsole creates a Console. Output is plain unless WithStyles is given.
func NewConsole(in io.Reader, out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{in: bufio.NewReader(in), out: out}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Out returns the console writer.
func (c *Console) Out() io.Writer {
	return c.out
}

// ReadLine shows prompt and reads one line without its line terminator.
// It returns io.EOF once the input is exhausted.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, c.style(func(s *Styles) lipgloss.Style { return s.Prompt }, prompt))

	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
		}
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if c.echo {
		fmt.Fprintln(c.out, line)
	}
	return line, nil
}

// Confirm asks a yes/no question. "y" and "yes" in any case accept;
// anything else, including closed input, declines.
func (c *Console) Confirm(prompt string) (bool, error) {
	line, err := c.ReadLine(prompt)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Println writes a line.
func (c *Console) Println(line string) {
	fmt.Fprintln(c.out, line)
}

// Printf writes formatted text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Field writes "Label: value", or just "Label:" when value is empty.
func (c *Console) Field(label, value string) {
	l := c.style(func(s *Styles) lipgloss.Style { return s.Label }, label+":")
	if value == "" {
		fmt.Fprintln(c.out, l)
		return
	}
	fmt.Fprintln(c.out, l+" "+value)
}

// Error writes an operator-visible error line.
func (c *Console) Error(err error) {
	fmt.Fprintln(c.out, c.style(func(s *Styles) lipgloss.Style { return s.Error }, "Error: "+err.Error()))
}

func (c *Console) style(pick func(*Styles) lipgloss.Style, text string) string {
	if c.styles == nil {
		return text
	}
	return pick(c.styles).Render(text)
}

// Note writes a de-emphasized line.
func (c *Console) Note(line string) {
	fmt.Fprintln(c.out, c.style(func(s *Styles) lipgloss.Style { return s.Muted }, line))
}
