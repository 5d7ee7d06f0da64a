package app

import (
	"strings"

	"github.com/philipparndt/stlvol/pkg/viewer"
)

// NudgeForKey maps a key name to a camera nudge. Names follow fyne's
// KeyName spelling; GLFW callers translate to it first.
func NudgeForKey(name string) (viewer.Nudge, bool) {
	switch strings.ToLower(name) {
	case "left":
		return viewer.NudgeLeft, true
	case "right":
		return viewer.NudgeRight, true
	case "up":
		return viewer.NudgeUp, true
	case "down":
		return viewer.NudgeDown, true
	case "+", "=", "kp_add":
		return viewer.NudgeZoomIn, true
	case "-", "kp_subtract":
		return viewer.NudgeZoomOut, true
	case "r", "home":
		return viewer.NudgeReset, true
	}
	return 0, false
}
