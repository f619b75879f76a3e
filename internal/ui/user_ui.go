package ui

import (
	"fmt"

	"maji/local-app/internal/model"
)

// UserList displays the registered users
func (u *UI) UserList(users []model.User) {
	if len(users) == 0 {
		u.Println("No hay usuarios registrados.")
		return
	}

	u.PrintlnColored(fmt.Sprintf("%-5s %-28s %-14s %-14s %s", "ID", "Nombre", "Cédula", "Teléfono", "Rol"), ColorBold)
	for _, user := range users {
		roleColor := ColorLightBlue
		if user.Role.IsAdmin() {
			roleColor = ColorLightPurple
		}
		u.Printf("%-5d %-28s %-14s %-14s %s\n",
			user.ID, user.FullName, user.NationalID, user.Phone, u.colorize(string(user.Role), roleColor))
	}
	u.Info(fmt.Sprintf("%d usuarios", len(users)))
}

// UserInfo displays a single user
func (u *UI) UserInfo(user *model.User) {
	u.PrintlnColored(user.FullName, ColorBold)
	u.Printf("  ID:       %d\n", user.ID)
	u.Printf("  Cédula:   %s\n", user.NationalID)
	u.Printf("  Teléfono: %s\n", user.Phone)
	u.Printf("  Rol:      %s\n", user.Role)
}

// MenuItem is one destination of a landing menu
type MenuItem struct {
	Command string
	Label   string
}

// Menu displays the landing screen of the logged-in user
func (u *UI) Menu(title string, rec *model.Session, items []MenuItem) {
	u.PrintlnColored(title, ColorBold)
	if rec != nil {
		u.Printf("Bienvenido, %s (%s)\n", rec.FullName, rec.Role)
	}
	for _, item := range items {
		u.Printf("  %-22s %s\n", u.colorize(item.Command, ColorLightGreen), item.Label)
	}
}
