package watch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shinji-kodama/gopherlings/internal/ui"
)

// readRetryDelay throttles the shell when its input keeps failing.
const readRetryDelay = 100 * time.Millisecond

// Shell is the line-oriented command prompt that runs beside the watch loop.
type Shell struct {
	In   io.Reader
	Out  io.Writer
	Hint *HintState
	Quit *QuitFlag
}

// Run reads commands until "quit" is entered or the input reaches EOF.
// Other read errors are reported and reading resumes.
//
// Run blocks on the input and cannot be interrupted; the orchestrator
// starts it on its own goroutine and never waits for it.
func (s *Shell) Run() {
	r := bufio.NewReader(s.In)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if s.Exec(line) {
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintf(s.Out, "error reading command: %v\n", err)
			time.Sleep(readRetryDelay)
		}
	}
}

// Exec runs one command line and reports whether the shell should stop.
func (s *Shell) Exec(line string) bool {
	input := strings.TrimSpace(line)
	switch input {
	case "hint":
		if hint, ok := s.Hint.Get(); ok {
			fmt.Fprintln(s.Out, hint)
		}
	case "clear":
		fmt.Fprintln(s.Out, ui.ClearShellSeq)
	case "quit":
		fmt.Fprintln(s.Out, "Bye!")
		s.Quit.Set()
		return true
	case "help":
		fmt.Fprintln(s.Out, ui.WatchHelp)
	default:
		fmt.Fprintf(s.Out, "unknown command: %s\n%s\n", input, ui.WatchHelp)
	}
	return false
}
