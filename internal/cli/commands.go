package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"maji/local-app/internal/apierr"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/nav"
	"maji/local-app/internal/ui"
	"maji/local-app/internal/view"
)

// LogoutConfirmation is asked before the session is closed.
const LogoutConfirmation = "¿Estás seguro de que quieres cerrar sesión?"

// shortcuts expand single words into scope and operation
var shortcuts = map[string]model.Command{
	"login":    {Scope: "user", Operation: "login"},
	"register": {Scope: "user", Operation: "register"},
	"logout":   {Scope: "user", Operation: "logout"},
	"users":    {Scope: "user", Operation: "list"},
	"surveys":  {Scope: "survey", Operation: "show"},
	"answer":   {Scope: "survey", Operation: "answer"},
	"submit":   {Scope: "survey", Operation: "submit"},
	"expand":   {Scope: "catalog", Operation: "expand"},
	"collapse": {Scope: "catalog", Operation: "collapse"},
	"images":   {Scope: "catalog", Operation: "images"},
	"go":       {Scope: "system", Operation: "go"},
	"back":     {Scope: "system", Operation: "back"},
	"retry":    {Scope: "system", Operation: "retry"},
	"export":   {Scope: "system", Operation: "export"},
	"menu":     {Scope: "system", Operation: "menu"},
	"status":   {Scope: "system", Operation: "status"},
	"history":  {Scope: "system", Operation: "history"},
	"help":     {Scope: "system", Operation: "help"},
	"exit":     {Scope: "system", Operation: "exit"},
	"quit":     {Scope: "system", Operation: "exit"},
}

var (
	errNotHere    = errors.New("este comando no está disponible en esta pantalla")
	errNoSession  = errors.New("no hay una sesión activa")
	errNoExport   = errors.New("no hay datos para exportar en esta pantalla")
	errNoFilename = errors.New("falta el nombre del archivo")
	errNoHistory  = errors.New("el historial no está disponible")
)

const defaultHistory = 20

// reportedError is a failure the user has already been told about.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// ExecuteCommand routes cmd to its handler
func (c *CLI) ExecuteCommand(cmd model.Command) error {
	if cmd.Scope == "" {
		return fmt.Errorf("no command provided")
	}
	c.logger.Command(c.ctx, "Command", log.Fields{
		"scope":     cmd.Scope,
		"operation": cmd.Operation,
		"args":      redactArgs(cmd),
		"route":     c.Deps.Navigator.Current(),
	})

	switch cmd.Scope {
	case "user":
		return c.executeUserCommand(cmd)
	case "survey":
		return c.executeSurveyCommand(cmd)
	case "catalog":
		return c.executeCatalogCommand(cmd)
	case "system":
		return c.executeSystemCommand(cmd)
	default:
		return fmt.Errorf("comando desconocido: %s", cmd.Scope)
	}
}

// redactArgs hides passwords before commands are logged.
func redactArgs(cmd model.Command) []string {
	args := append([]string(nil), cmd.Args...)
	if cmd.Scope == "user" && cmd.Operation == "login" && len(args) > 1 {
		for i := 1; i < len(args); i++ {
			args[i] = "***"
		}
	}
	return args
}

// Report shows err unless the user was already told about it.
func (c *CLI) Report(err error) {
	var loadErr *view.LoadError
	var reported reportedError
	switch {
	case err == nil:
	case errors.As(err, &loadErr):
		c.UI.Warning(loadErr.Message + ". Usa 'retry' para intentar de nuevo.")
	case errors.As(err, &reported), view.IsValidation(err), errors.Is(err, view.ErrPartialSubmit):
	case errors.Is(err, context.Canceled):
	case errors.Is(err, view.ErrNotEntered):
		c.UI.Error(capitalize(errNotHere.Error()))
	default:
		if _, ok := apierr.As(err); ok {
			return
		}
		c.UI.Error(capitalize(err.Error()))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func (c *CLI) executeUserCommand(cmd model.Command) error {
	switch cmd.Operation {
	case "login":
		return c.userLogin(cmd.Args)
	case "register":
		return c.userRegister(cmd.Args)
	case "logout":
		return c.userLogout()
	case "list":
		c.Deps.Navigator.Navigate(string(nav.AdminUsers))
		return nil
	case "show":
		return c.userShow(cmd.Args)
	case "export":
		return c.export(cmd.Args)
	default:
		return fmt.Errorf("operación de usuario desconocida: %s", cmd.Operation)
	}
}

func (c *CLI) userLogin(args []string) error {
	if route := c.Deps.Navigator.Current(); route != nav.Login && route != nav.Entry {
		c.Deps.Navigator.Navigate(string(nav.Login))
	}

	var nationalID, password string
	var err error
	if len(args) > 0 {
		nationalID = args[0]
	} else if nationalID, err = c.prompter.Input("Cédula: "); err != nil {
		return err
	}
	if len(args) > 1 {
		password = args[1]
	} else if password, err = c.prompter.Password("Contraseña: "); err != nil {
		return err
	}

	target, err := c.login.Submit(nationalID, password)
	if err != nil {
		return err
	}
	c.UI.Info(fmt.Sprintf("Redirigiendo a %s...", target))
	c.UpdatePrompt()
	return nil
}

func (c *CLI) userRegister(args []string) error {
	if c.Deps.Navigator.Current() != nav.Register {
		c.login.GoRegister()
	}

	var form view.Registration
	var err error
	if len(args) > 0 {
		form.FullName = args[0]
	} else if form.FullName, err = c.prompter.Input("Nombre completo: "); err != nil {
		return err
	}
	if len(args) > 1 {
		form.NationalID = args[1]
	} else if form.NationalID, err = c.prompter.Input("Cédula: "); err != nil {
		return err
	}
	if form.Password, err = c.prompter.Password("Contraseña: "); err != nil {
		return err
	}
	if form.ConfirmPassword, err = c.prompter.Password("Confirmar contraseña: "); err != nil {
		return err
	}

	user, err := c.register.Submit(form)
	if err != nil {
		return err
	}
	c.UI.Info(fmt.Sprintf("Cuenta %d creada para %s. Redirigiendo a %s...", user.ID, user.FullName, nav.Login))
	return nil
}

func (c *CLI) userLogout() error {
	role, ok := c.Deps.Sessions.Role()
	if !ok {
		return errNoSession
	}

	answer, err := c.prompter.Input(LogoutConfirmation + " (s/n): ")
	if err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
	default:
		c.UI.Info("Cierre de sesión cancelado")
		return nil
	}

	if role.IsAdmin() {
		c.adminMenu.Logout()
	} else {
		c.userMenu.Logout()
	}
	c.UI.Info("Sesión cerrada")
	c.UpdatePrompt()
	return nil
}

func (c *CLI) userShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("uso: user show <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("id de usuario inválido: %s", args[0])
	}
	user, err := c.adminUsers.User(id)
	if err != nil {
		return err
	}
	c.UI.UserInfo(user)
	return nil
}

func (c *CLI) executeSurveyCommand(cmd model.Command) error {
	switch cmd.Operation {
	case "show":
		return c.surveyShow()
	case "answer":
		return c.surveyAnswer(cmd.Args)
	case "submit":
		return c.surveySubmit()
	case "export":
		return c.export(cmd.Args)
	default:
		return fmt.Errorf("operación de encuesta desconocida: %s", cmd.Operation)
	}
}

func (c *CLI) surveyShow() error {
	role, ok := c.Deps.Sessions.Role()
	if !ok {
		return errNoSession
	}
	if c.Deps.Navigator.Current() == nav.UserSurveys {
		if form, ok := c.surveys.Form(); ok {
			c.UI.SurveyForm(form)
			return nil
		}
	}
	if role.IsAdmin() {
		c.open(nav.AdminSurveys)
	} else {
		c.open(nav.UserSurveys)
	}
	return nil
}

func (c *CLI) surveyAnswer(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uso: answer <número> [respuesta]")
	}
	form, ok := c.surveys.Form()
	if !ok {
		return errNotHere
	}
	n, err := strconv.Atoi(args[0])
	questions := form.Questions()
	if err != nil || n < 1 || n > len(questions) {
		return fmt.Errorf("número de pregunta inválido: %s", args[0])
	}

	answer := strings.Join(args[1:], " ")
	if answer == "" {
		q := questions[n-1]
		c.UI.Println(q.Text)
		for i, opt := range q.Options {
			c.UI.Printf("  %d) %s\n", i+1, opt)
		}
		if answer, err = c.prompter.Input("Respuesta: "); err != nil {
			return err
		}
	}

	if err := c.surveys.Answer(n-1, answer); err != nil {
		return err
	}
	c.UI.Info(fmt.Sprintf("Respuesta %d: %s", n, form.Answers()[n-1]))
	return nil
}

func (c *CLI) surveySubmit() error {
	result, err := c.surveys.Submit()
	if result != nil {
		c.UI.SurveyResult(result)
	}
	return err
}

func (c *CLI) executeCatalogCommand(cmd model.Command) error {
	switch cmd.Operation {
	case "show":
		if c.Deps.Navigator.Current() == nav.Catalog {
			if loader, ok := c.catalog.Loader(); ok {
				c.UI.Catalog(loader)
				return nil
			}
		}
		c.open(nav.Catalog)
		return nil
	case "expand":
		return c.catalogExpand(cmd.Args)
	case "collapse":
		loader, ok := c.catalog.Loader()
		if !ok {
			return errNotHere
		}
		c.catalog.Collapse()
		c.UI.Catalog(loader)
		return nil
	case "reload":
		return c.loadCatalog()
	case "images":
		images, err := c.catalog.AllImages()
		if err != nil {
			return err
		}
		c.UI.ImageList(images)
		return nil
	default:
		return fmt.Errorf("operación de catálogo desconocida: %s", cmd.Operation)
	}
}

func (c *CLI) catalogExpand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("uso: expand <id de modelo>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("id de modelo inválido: %s", args[0])
	}
	loader, ok := c.catalog.Loader()
	if !ok {
		return errNotHere
	}

	_, err = c.catalog.Toggle(id)
	if view.IsValidation(err) || errors.Is(err, view.ErrNotEntered) {
		return err
	}
	c.UI.Catalog(loader)
	return err
}

func (c *CLI) executeSystemCommand(cmd model.Command) error {
	switch cmd.Operation {
	case "help":
		return c.HandleHelp(cmd.Args)
	case "go":
		if len(cmd.Args) != 1 {
			return fmt.Errorf("uso: go <ruta>")
		}
		c.open(nav.Resolve(cmd.Args[0]))
		return nil
	case "back":
		return c.back()
	case "retry":
		return c.retry()
	case "export":
		return c.export(cmd.Args)
	case "menu":
		role, ok := c.Deps.Sessions.Role()
		if !ok {
			return errNoSession
		}
		c.Deps.Navigator.Navigate(string(nav.Landing(role)))
		return nil
	case "status":
		c.status()
		return nil
	case "history":
		return c.history(cmd.Args)
	case "exit", "quit":
		c.UI.Println("Saliendo...")
		return ErrExit
	default:
		return fmt.Errorf("operación de sistema desconocida: %s", cmd.Operation)
	}
}

// open navigates to route, through the landing menu when it is active
func (c *CLI) open(route nav.Route) {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	switch active {
	case c.adminMenu:
		c.adminMenu.Open(route)
	case c.userMenu:
		c.userMenu.Open(route)
	default:
		c.Deps.Navigator.Navigate(string(route))
	}
}

func (c *CLI) back() error {
	switch c.Deps.Navigator.Current() {
	case nav.AdminSurveys:
		c.adminSurveys.Back()
	case nav.AdminUsers:
		c.adminUsers.Back()
	case nav.UserSurveys:
		c.surveys.Back()
	case nav.Catalog:
		c.catalog.Back()
	case nav.Register:
		c.register.GoLogin()
	default:
		c.UI.Info("No hay una pantalla anterior")
	}
	return nil
}

// retry repeats the load of the current screen
func (c *CLI) retry() error {
	switch c.Deps.Navigator.Current() {
	case nav.AdminSurveys:
		return c.loadQuestions()
	case nav.AdminUsers:
		return c.loadUsers()
	case nav.UserSurveys:
		return c.loadSurvey()
	case nav.Catalog:
		return c.loadCatalog()
	default:
		return errNotHere
	}
}

func (c *CLI) export(args []string) error {
	if len(args) != 1 {
		return errNoFilename
	}
	var err error
	switch c.Deps.Navigator.Current() {
	case nav.AdminUsers:
		err = c.adminUsers.Export(args[0])
	case nav.AdminSurveys:
		err = c.adminSurveys.Export(args[0])
	default:
		return errNoExport
	}
	if err != nil {
		return reportedError{err}
	}
	return nil
}

func (c *CLI) status() {
	c.UI.Printf("Pantalla: %s\n", c.Deps.Navigator.Current())
	if rec, ok := c.Deps.Sessions.Current(); ok {
		c.UI.Printf("Usuario:  %s (%s, cédula %s)\n", rec.FullName, rec.Role, rec.NationalID)
	} else {
		c.UI.Println("Usuario:  sin sesión")
	}
	if c.Deps.Loading != nil && c.Deps.Loading.Active() {
		c.UI.Println("Cargando...")
	}
	if n, ok := c.Deps.Notifications.Current(); ok {
		c.UI.Print("Último mensaje: ")
		c.UI.Notification(n)
	}
}

func (c *CLI) history(args []string) error {
	if c.Activity == nil {
		return errNoHistory
	}
	limit := defaultHistory
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("cantidad inválida: %s", args[0])
		}
		limit = n
	}
	entries, err := c.Activity.RecentActivity(c.ctx, limit)
	if err != nil {
		return err
	}
	c.UI.ActivityList(entries)
	return nil
}

// render draws a screen right after it was entered, loading its data.
func (c *CLI) render(route nav.Route) {
	var err error
	switch route {
	case nav.Entry, nav.Login:
		c.UI.PrintlnColored("Inicio de sesión", ui.ColorBold)
		c.UI.Info("Usa 'login <cédula>' para ingresar o 'register' para crear una cuenta.")
	case nav.Register:
		c.UI.PrintlnColored("Registro de usuario", ui.ColorBold)
		c.UI.Info("Usa 'register' para completar el formulario o 'back' para volver.")
	case nav.AdminLanding:
		rec, _ := c.adminMenu.CurrentUser()
		c.UI.Menu("Panel de administración", rec, []ui.MenuItem{
			{Command: "users", Label: "Ver usuarios registrados"},
			{Command: "surveys", Label: "Ver preguntas de la encuesta"},
			{Command: "go /catalogo", Label: "Ver catálogo"},
			{Command: "logout", Label: "Cerrar sesión"},
		})
	case nav.UserLanding:
		rec, _ := c.userMenu.CurrentUser()
		c.UI.Menu("Menú principal", rec, []ui.MenuItem{
			{Command: "surveys", Label: "Responder la encuesta"},
			{Command: "go /catalogo", Label: "Ver catálogo"},
			{Command: "logout", Label: "Cerrar sesión"},
		})
	case nav.AdminUsers:
		err = c.loadUsers()
	case nav.AdminSurveys:
		err = c.loadQuestions()
	case nav.UserSurveys:
		err = c.loadSurvey()
	case nav.Catalog:
		err = c.loadCatalog()
	}
	c.Report(err)
}

func (c *CLI) loadUsers() error {
	users, err := c.adminUsers.Load()
	if err != nil {
		return err
	}
	c.UI.UserList(users)
	return nil
}

func (c *CLI) loadQuestions() error {
	questions, err := c.adminSurveys.Load()
	if err != nil {
		return err
	}
	c.UI.QuestionList(questions)
	return nil
}

func (c *CLI) loadSurvey() error {
	form, err := c.surveys.Load()
	if err != nil {
		return err
	}
	c.UI.SurveyForm(form)
	c.UI.Info("Usa 'answer <número> <respuesta>' y luego 'submit'.")
	return nil
}

func (c *CLI) loadCatalog() error {
	loader, err := c.catalog.Load()
	if err != nil {
		return err
	}
	c.UI.Catalog(loader)
	c.UI.Info("Usa 'expand <id>' para ver el detalle de un modelo.")
	return nil
}
