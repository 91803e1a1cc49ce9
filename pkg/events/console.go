package events

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var prefixes = map[Level]struct {
	tag   string
	paint func(format string, a ...interface{}) string
}{
	LevelInfo:    {"[✓]", color.GreenString},
	LevelWarn:    {"[⚠]", color.YellowString},
	LevelError:   {"[✗]", color.RedString},
	LevelSuccess: {"[✅]", color.GreenString},
	LevelLoading: {"[⟳]", color.CyanString},
	LevelStep:    {"[➤]", color.WhiteString},
}

// Console prints colored event lines. Loading events keep a spinner running
// until the next event arrives.
type Console struct {
	out     io.Writer
	mu      sync.Mutex
	spinner *spinner.Spinner
	useSpin bool
}

// NewConsole creates a console sink. The spinner is only used when spin is
// true, which callers should limit to interactive terminals.
func NewConsole(out io.Writer, spin bool) *Console {
	c := &Console{
		out:     out,
		useSpin: spin,
	}
	if spin {
		c.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return c
}

// Handle implements Sink
func (c *Console) Handle(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.useSpin && c.spinner.Active() {
		c.spinner.Stop()
	}

	p, ok := prefixes[ev.Level]
	if !ok {
		fmt.Fprintln(c.out, ev.Message)
		return
	}
	fmt.Fprintln(c.out, p.paint("%s %s", p.tag, ev.Message))

	if c.useSpin && ev.Level == LevelLoading {
		c.spinner.Start()
	}
}

// Progress implements Sink
func (c *Console) Progress(completed, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.useSpin && c.spinner.Active() {
		c.spinner.Stop()
	}
	fmt.Fprintf(c.out, "%s\n", color.HiBlackString("Progress: %d/%d", completed, total))
}

// Close stops a running spinner
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.useSpin && c.spinner.Active() {
		c.spinner.Stop()
	}
}
