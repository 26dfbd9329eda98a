package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerAction runs an action with a spinner, returning any error from the action
type SpinnerAction func() error

// RunWithSpinner runs an action with a spinner display
// If not TTY, just prints the title and runs the action
func RunWithSpinner(ctx context.Context, title string, action SpinnerAction) error {
	if !IsTTY() {
		fmt.Println(Dim.Render(title + "..."))
		return action()
	}

	var actionErr error
	spinErr := spinner.New().
		Context(ctx).
		Title(title).
		Action(func() {
			actionErr = action()
		}).
		Run()

	if spinErr != nil {
		return spinErr
	}
	return actionErr
}
