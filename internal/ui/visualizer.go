package ui

import "strings"

// printTemplate prints line, switching color at every {{tag}} found in
// colorMap. Unknown tags fall back to the default color.
func (u *UI) printTemplate(line string, colorMap map[string]Color) {
	var b strings.Builder
	color := ColorDefault
	for len(line) > 0 {
		start := strings.Index(line, "{{")
		if start == -1 {
			b.WriteString(u.colorize(line, color))
			break
		}
		end := strings.Index(line[start:], "}}")
		if end == -1 {
			b.WriteString(u.colorize(line, color))
			break
		}
		end += start

		if start > 0 {
			b.WriteString(u.colorize(line[:start], color))
		}
		var ok bool
		if color, ok = colorMap[line[start:end+2]]; !ok {
			color = ColorDefault
		}
		line = line[end+2:]
	}
	b.WriteString("\n")
	u.Print(b.String())
}
