package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/imgajeed76/pgrid/internal/ui/styles"
)

// Spinner provides a simple animated spinner for slow dataset loads.
// It writes to stderr so stdout stays clean for piped output.
type Spinner struct {
	message string
	out     io.Writer
	animate bool
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return newSpinner(message, os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

func newSpinner(message string, out io.Writer, tty bool) *Spinner {
	return &Spinner{
		message: message,
		out:     out,
		animate: tty && !styles.IsAccessible() && !styles.NoColor(),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	// Accessible mode or non-TTY: just print static message
	if !s.animate {
		fmt.Fprintln(s.out, s.message+"...")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := style.Render(frames[i%len(frames)])
				fmt.Fprintf(s.out, "\r%s %s", frame, s.message)
				i++
			}
		}
	}()
}

// Stop stops the spinner and waits for the line to be cleared
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.ErrorMsg(msg))
}
