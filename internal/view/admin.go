package view

import (
	"context"
	"fmt"
	"sync"

	"maji/local-app/internal/guard"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/nav"
	"maji/local-app/internal/storage"
)

// Screen-level load failure messages
const (
	MessageUsersLoadFailed   = "Error al cargar los usuarios"
	MessageSurveysLoadFailed = "Error al cargar las encuestas"
)

// Menu is a role landing screen with logout.
type Menu struct {
	base
}

// NewAdminMenu creates the administrator landing view
func NewAdminMenu(deps *Deps) *Menu {
	return &Menu{base: newBase(deps, "admin_menu", guard.AdminOnly)}
}

// NewUserMenu creates the regular user landing view
func NewUserMenu(deps *Deps) *Menu {
	return &Menu{base: newBase(deps, "user_menu", guard.UserOnly)}
}

// CurrentUser returns the logged-in user
func (v *Menu) CurrentUser() (*model.Session, bool) {
	return v.deps.Sessions.Current()
}

// Open navigates to one of the menu's destinations
func (v *Menu) Open(route nav.Route) {
	v.deps.Navigator.Navigate(string(route))
}

// Logout ends the session. The caller asks for confirmation first.
func (v *Menu) Logout() {
	v.Leave()
	logout(v.deps)
}

// AdminSurveys lists the survey questions for administrators.
type AdminSurveys struct {
	base

	mu        sync.Mutex
	questions []model.Question
}

// NewAdminSurveys creates the survey listing view
func NewAdminSurveys(deps *Deps) *AdminSurveys {
	return &AdminSurveys{base: newBase(deps, "admin_surveys", guard.AdminOnly)}
}

// Load fetches the questions. It is also the retry action.
func (v *AdminSurveys) Load() ([]model.Question, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}

	done := v.busy()
	questions, err := v.deps.API.ListSurveys(ctx)
	done()
	if stale(ctx, err) {
		return nil, ErrNotEntered
	}
	if err != nil {
		return nil, &LoadError{Message: MessageSurveysLoadFailed, Err: err}
	}

	v.mu.Lock()
	v.questions = questions
	v.mu.Unlock()
	return questions, nil
}

// Export writes the loaded questions to filename as JSON or XML.
func (v *AdminSurveys) Export(filename string) error {
	v.mu.Lock()
	questions := append([]model.Question(nil), v.questions...)
	v.mu.Unlock()

	if err := storage.ExportQuestions(filename, storage.FormatFromFilename(filename), questions); err != nil {
		v.deps.Logger.Error(context.Background(), "Failed to export surveys", log.Fields{"file": filename, "error": err})
		v.deps.Notifications.Error(err.Error(), "Exportación")
		return err
	}
	v.deps.Notifications.Success(fmt.Sprintf("%d preguntas exportadas a %s", len(questions), filename), "Exportación")
	return nil
}

// Back returns to the administrator menu
func (v *AdminSurveys) Back() {
	v.Leave()
	v.deps.Navigator.Navigate(string(nav.AdminLanding))
}

// AdminUsers lists registered users for administrators.
type AdminUsers struct {
	base

	mu    sync.Mutex
	users []model.User
}

// NewAdminUsers creates the user listing view
func NewAdminUsers(deps *Deps) *AdminUsers {
	return &AdminUsers{base: newBase(deps, "admin_users", guard.AdminOnly)}
}

// Load fetches every user. It is also the retry action.
func (v *AdminUsers) Load() ([]model.User, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}

	done := v.busy()
	users, err := v.deps.API.ListUsers(ctx)
	done()
	if stale(ctx, err) {
		return nil, ErrNotEntered
	}
	if err != nil {
		return nil, &LoadError{Message: MessageUsersLoadFailed, Err: err}
	}

	v.mu.Lock()
	v.users = users
	v.mu.Unlock()
	return users, nil
}

// User fetches one user by ID
func (v *AdminUsers) User(id int) (*model.User, error) {
	ctx, err := v.lifetime()
	if err != nil {
		return nil, err
	}

	done := v.busy()
	user, err := v.deps.API.GetUser(ctx, id)
	done()
	if stale(ctx, err) {
		return nil, ErrNotEntered
	}
	return user, err
}

// Export writes the loaded users, without passwords, to filename.
func (v *AdminUsers) Export(filename string) error {
	v.mu.Lock()
	users := append([]model.User(nil), v.users...)
	v.mu.Unlock()

	if err := storage.ExportUsers(filename, storage.FormatFromFilename(filename), users); err != nil {
		v.deps.Logger.Error(context.Background(), "Failed to export users", log.Fields{"file": filename, "error": err})
		v.deps.Notifications.Error(err.Error(), "Exportación")
		return err
	}
	v.deps.Notifications.Success(fmt.Sprintf("%d usuarios exportados a %s", len(users), filename), "Exportación")
	return nil
}

// Back returns to the administrator menu
func (v *AdminUsers) Back() {
	v.Leave()
	v.deps.Navigator.Navigate(string(nav.AdminLanding))
}
