package view

import (
	"errors"
	"strings"

	"maji/local-app/internal/apierr"
	"maji/local-app/internal/guard"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/nav"
)

// Login is the credential screen, also shown at the entry route.
type Login struct {
	base
}

// NewLogin creates the login view
func NewLogin(deps *Deps) *Login {
	return &Login{base: newBase(deps, "login", guard.Public)}
}

// Submit validates the credentials locally, checks them against the backend
// and on success stores the session and schedules navigation to the role's
// landing route. It returns that route.
func (v *Login) Submit(nationalID, password string) (nav.Route, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return "", err
	}

	nationalID = strings.TrimSpace(nationalID)
	switch {
	case nationalID == "":
		return "", v.invalid("La cédula es obligatoria")
	case !numeric(nationalID):
		return "", v.invalid("La cédula debe ser numérica.")
	case strings.TrimSpace(password) == "":
		return "", v.invalid("La contraseña es obligatoria")
	}

	done := v.busy()
	user, err := v.deps.API.ValidateCredentials(ctx, model.Credentials{NationalID: nationalID, Password: password})
	done()
	if err != nil {
		return "", err
	}

	rec := model.SessionFromUser(user)
	v.deps.Sessions.Save(rec)

	target := nav.Landing(rec.Role)
	v.deps.Logger.Info(ctx, "User logged in", log.Fields{"userID": rec.ID, "role": rec.Role, "target": target})
	v.deps.Notifications.Success("Bienvenido, "+rec.FullName, "Inicio de sesión")
	v.deps.Navigator.NavigateAfter(ctx, target, v.deps.RedirectDelay)
	return target, nil
}

// GoRegister moves to the registration screen
func (v *Login) GoRegister() {
	v.deps.Navigator.Navigate(string(nav.Register))
}

func numeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Registration is the input of the registration form
type Registration struct {
	FullName        string
	NationalID      string
	Password        string
	ConfirmPassword string
}

// Register is the account creation screen
type Register struct {
	base
}

// NewRegister creates the registration view
func NewRegister(deps *Deps) *Register {
	return &Register{base: newBase(deps, "register", guard.Public)}
}

// Submit validates the form in order, creates the user and schedules a
// return to the login screen.
func (v *Register) Submit(form Registration) (*model.User, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(form.FullName) == "":
		return nil, v.invalid("El nombre completo es obligatorio")
	case strings.TrimSpace(form.NationalID) == "":
		return nil, v.invalid("La cédula es obligatoria")
	case strings.TrimSpace(form.Password) == "":
		return nil, v.invalid("La contraseña es obligatoria")
	case strings.TrimSpace(form.ConfirmPassword) == "":
		return nil, v.invalid("La confirmación de contraseña es obligatoria")
	case form.Password != form.ConfirmPassword:
		return nil, v.invalid("Las contraseñas no coinciden")
	}

	done := v.busy()
	user, err := v.deps.API.CreateUser(ctx, model.UserRegistration{
		FullName:   strings.TrimSpace(form.FullName),
		NationalID: strings.TrimSpace(form.NationalID),
		Password:   strings.TrimSpace(form.Password),
	})
	done()
	if err != nil {
		if _, ok := apierr.As(err); !ok && !stale(ctx, err) {
			v.deps.Notifications.Error("Error al procesar la respuesta del servidor", "Error del Sistema")
		}
		return nil, err
	}

	v.deps.Logger.Info(ctx, "User registered", log.Fields{"userID": user.ID})
	v.deps.Notifications.Success("Usuario registrado exitosamente", "Registro Completado")
	v.deps.Navigator.NavigateAfter(ctx, nav.Login, v.deps.RedirectDelay)
	return user, nil
}

// GoLogin moves back to the login screen
func (v *Register) GoLogin() {
	v.deps.Navigator.Navigate(string(nav.Login))
}

// IsValidation reports whether err is a local validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
