package ui

import "maji/local-app/internal/model"

type Color string

const (
	ColorDefault Color = "\033[0m"
	ColorGray    Color = "\033[38;2;150;150;150m"
	ColorWhite   Color = "\033[38;2;255;255;255m"
	ColorBold    Color = "\033[38;2;255;255;255;1m"

	ColorLightRed Color = "\033[38;2;255;150;150m"
	ColorRed      Color = "\033[38;2;255;0;0m"

	ColorLightGreen Color = "\033[38;2;150;255;150m"
	ColorGreen      Color = "\033[38;2;0;255;0m"

	ColorLightYellow Color = "\033[38;2;255;255;150m"
	ColorLightBlue   Color = "\033[38;2;150;150;255m"
	ColorLightPurple Color = "\033[38;2;200;150;255m"
	ColorLightOrange Color = "\033[38;2;255;200;150m"
)

// kindStyle is the marker and colors used for one notification kind.
type kindStyle struct {
	marker      string
	markerColor Color
	textColor   Color
}

var kindStyles = map[model.NotificationKind]kindStyle{
	model.KindSuccess: {"✓", ColorGreen, ColorLightGreen},
	model.KindError:   {"!", ColorRed, ColorLightOrange},
	model.KindWarning: {"?", ColorLightRed, ColorLightYellow},
	model.KindInfo:    {"i", ColorLightBlue, ColorGray},
}
