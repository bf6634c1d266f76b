package input

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/dpend/internal/sim"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd700")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b"))
)

type Submitter interface {
	Submit(cmd sim.Command) error
}

// Console reads commands line by line and submits them to a simulator.
// Bad lines are reported and the console keeps reading.
type Console struct {
	in  io.Reader
	out io.Writer
	sim Submitter
}

func NewConsole(in io.Reader, out io.Writer, s Submitter) *Console {
	return &Console{in: in, out: out, sim: s}
}

// Run returns nil on "q" or end of input, or the context error.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			if quit := c.handle(line); quit {
				return nil
			}
			c.prompt()
		}
	}
}

func (c *Console) handle(line string) bool {
	action, err := ParseLine(line)
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
		return false
	}
	switch {
	case action.Quit:
		return true
	case action.About:
		fmt.Fprintln(c.out, About)
	default:
		if err := c.sim.Submit(action.Command); err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
			return false
		}
		fmt.Fprintln(c.out, okStyle.Render("queued for next tick"))
	}
	return false
}

func (c *Console) prompt() {
	fmt.Fprint(c.out, promptStyle.Render("[i/l/m/g/a/q] > "))
}
