package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WithSpinner runs fn while showing a spinner with msg on w. The spinner is
// skipped when quiet is set. On failure failMsg is left on screen in red.
func WithSpinner(w io.Writer, quiet bool, msg, failMsg string, fn func() error) error {
	if quiet {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()

	err := fn()
	if err != nil && failMsg != "" {
		s.FinalMSG = text.FgRed.Sprint(failMsg) + "\n"
	}
	return err
}
