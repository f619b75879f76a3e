package ui

import (
	"maji/local-app/internal/storage"
)

// ActivityList displays journal entries in local time
func (u *UI) ActivityList(entries []storage.Activity) {
	if len(entries) == 0 {
		u.Println("No hay actividad registrada.")
		return
	}
	for _, a := range entries {
		u.Printf("%s  %-18s %s\n",
			u.colorize(a.Created.Local().Format("2006-01-02 15:04:05"), ColorGray),
			u.colorize(a.Kind, ColorLightBlue),
			a.Detail)
	}
}
