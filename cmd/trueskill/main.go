package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes.
const (
	ExitSuccess         = 0 // every evaluation succeeded
	ExitEvaluationError = 1 // the input was read but some matches failed
	ExitError           = 2 // configuration, input or runtime error
)

// EvaluationFailedError reports that a batch ran but some matches failed.
type EvaluationFailedError struct {
	Failed int
	Total  int
}

func (e *EvaluationFailedError) Error() string {
	return fmt.Sprintf("%d of %d matches failed", e.Failed, e.Total)
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var evalErr *EvaluationFailedError
	if errors.As(err, &evalErr) {
		return ExitEvaluationError
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
