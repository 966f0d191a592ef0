package cli

import (
	"github.com/fatih/color"
)

// light renders a status light in its colour.
func light(status string) string {
	switch status {
	case "green":
		return color.New(color.FgGreen).Sprint("● green ")
	case "yellow":
		return color.New(color.FgYellow).Sprint("● yellow")
	case "red":
		return color.New(color.FgRed).Sprint("● red   ")
	}
	return "○ " + status
}

// stateLabel colours a mission state.
func stateLabel(state string) string {
	switch state {
	case "scanning", "engaging":
		return color.New(color.FgGreen).Sprint(state)
	case "paused":
		return color.New(color.FgYellow).Sprint(state)
	case "aborted":
		return color.New(color.FgRed).Sprint(state)
	case "complete":
		return color.New(color.FgBlue).Sprint(state)
	}
	return state
}
