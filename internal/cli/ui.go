package cli

import (
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerRefreshRate defines the refresh frequency of the progress spinner.
const SpinnerRefreshRate = 200 * time.Millisecond

// Spinner abstracts the behavior of a terminal spinner so the progress
// presenter can be tested without driving a real terminal animation.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner wraps spinner.Spinner to implement the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}
