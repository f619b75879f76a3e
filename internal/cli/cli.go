// Package cli provides the interactive command line of the MAJI client.
// It maps typed commands onto the screen controllers and keeps exactly one
// screen active, following the navigator.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"maji/local-app/internal/guard"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/nav"
	"maji/local-app/internal/storage"
	"maji/local-app/internal/ui"
	"maji/local-app/internal/view"
)

// ErrExit is returned by Run when the user asks to leave.
var ErrExit = errors.New("exit requested")

// Prompter reads interactive input for commands that ask for it.
type Prompter interface {
	Input(prompt string) (string, error)
	Password(prompt string) (string, error)
}

// screen is the part of every view controller the CLI drives.
type screen interface {
	Enter(ctx context.Context) guard.Decision
	Leave()
}

type CLI struct {
	UI     *ui.UI
	RL     *readline.Instance
	Deps   *view.Deps
	Prompt string

	// Activity is the local journal shown by "history"; nil disables it.
	Activity storage.ActivityLog

	prompter Prompter
	logger   *log.Logger
	ctx      context.Context

	login        *view.Login
	register     *view.Register
	adminMenu    *view.Menu
	userMenu     *view.Menu
	adminSurveys *view.AdminSurveys
	adminUsers   *view.AdminUsers
	surveys      *view.Surveys
	catalog      *view.Catalog

	screens map[nav.Route]screen

	// mu serializes screen switches; delayed redirects arrive from other
	// goroutines.
	mu     sync.Mutex
	active screen

	promptMu sync.Mutex
}

// NewCLI creates the command line. rl may be nil when commands only come
// from scripts; prompter may be nil to read from rl and the terminal.
func NewCLI(ctx context.Context, deps *view.Deps, u *ui.UI, rl *readline.Instance, prompter Prompter) *CLI {
	c := &CLI{
		UI:     u,
		RL:     rl,
		Deps:   deps,
		logger: deps.Logger,
		ctx:    ctx,

		login:        view.NewLogin(deps),
		register:     view.NewRegister(deps),
		adminMenu:    view.NewAdminMenu(deps),
		userMenu:     view.NewUserMenu(deps),
		adminSurveys: view.NewAdminSurveys(deps),
		adminUsers:   view.NewAdminUsers(deps),
		surveys:      view.NewSurveys(deps),
		catalog:      view.NewCatalog(deps),
	}
	if prompter == nil {
		prompter = &terminalPrompter{cli: c}
	}
	c.prompter = prompter

	c.screens = map[nav.Route]screen{
		nav.Entry:        c.login,
		nav.Login:        c.login,
		nav.Register:     c.register,
		nav.AdminLanding: c.adminMenu,
		nav.AdminSurveys: c.adminSurveys,
		nav.AdminUsers:   c.adminUsers,
		nav.UserLanding:  c.userMenu,
		nav.UserSurveys:  c.surveys,
		nav.Catalog:      c.catalog,
	}
	return c
}

// Start wires the CLI to the shared services and shows the first screen.
// A session persisted by an earlier run goes straight to its landing route.
func (c *CLI) Start() {
	c.Deps.Notifications.Subscribe(c.UI.Notification)
	if c.Deps.Loading != nil {
		c.Deps.Loading.Subscribe(func(bool) { c.UpdatePrompt() })
	}
	c.Deps.Navigator.OnChange(c.show)

	if role, ok := c.Deps.Sessions.Role(); ok {
		c.Deps.Navigator.Navigate(string(nav.Landing(role)))
		return
	}
	c.Deps.Navigator.Navigate(string(nav.Entry))
}

// Stop leaves the active screen, canceling its requests.
func (c *CLI) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Leave()
		c.active = nil
	}
}

// show switches to the screen of route. A guard refusal redirects instead.
func (c *CLI) show(route nav.Route) {
	c.mu.Lock()
	if c.active != nil {
		c.active.Leave()
		c.active = nil
	}
	s, ok := c.screens[route]
	if !ok {
		c.mu.Unlock()
		return
	}
	decision := s.Enter(c.ctx)
	if !decision.Proceed {
		c.mu.Unlock()
		c.Deps.Navigator.Navigate(string(decision.Redirect))
		return
	}
	c.active = s
	c.mu.Unlock()

	c.UpdatePrompt()
	c.render(route)
}

// UpdatePrompt rebuilds the prompt from the session, route and loading flag.
func (c *CLI) UpdatePrompt() {
	user := ""
	if rec, ok := c.Deps.Sessions.Current(); ok {
		user = rec.FullName
	}
	loading := c.Deps.Loading != nil && c.Deps.Loading.Active()
	prompt := c.UI.GetPromptString(user, string(c.Deps.Navigator.Current()), loading)

	c.promptMu.Lock()
	defer c.promptMu.Unlock()
	c.Prompt = prompt
	if c.RL != nil {
		c.RL.SetPrompt(prompt)
		c.RL.Refresh()
	}
}

func (c *CLI) currentPrompt() string {
	c.promptMu.Lock()
	defer c.promptMu.Unlock()
	return c.Prompt
}

// Run reads and executes one line.
func (c *CLI) Run() error {
	line, err := c.RL.Readline()
	if err != nil {
		return err
	}
	return c.ExecuteLine(line)
}

// ExecuteLine parses and executes a single command line.
func (c *CLI) ExecuteLine(line string) error {
	line = strings.TrimSpace(line)
	if len(line) == 0 || strings.HasPrefix(line, "#") {
		return nil
	}
	return c.ExecuteCommand(ParseCommand(c.ParseArgs(line)))
}

// ExecuteScript runs every line of filename as a command, stopping at exit.
func (c *CLI) ExecuteScript(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("error opening script file: %w", err)
	}
	defer f.Close()
	return c.executeFrom(f)
}

func (c *CLI) executeFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if err := c.ExecuteLine(line); err != nil {
			if errors.Is(err, ErrExit) {
				return err
			}
			c.Report(err)
		}
	}
	return scanner.Err()
}

// ParseArgs splits input on spaces, keeping quoted text together.
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ' ', '\t':
			if !inQuotes {
				if currentArg.Len() > 0 {
					args = append(args, currentArg.String())
					currentArg.Reset()
				}
			} else {
				currentArg.WriteRune(char)
			}
		default:
			currentArg.WriteRune(char)
		}
	}

	if currentArg.Len() > 0 {
		args = append(args, currentArg.String())
	}

	return args
}

// ParseCommand turns arguments into a command. Shortcuts such as "login"
// or "back" expand to their scope and operation.
func ParseCommand(args []string) model.Command {
	if len(args) == 0 {
		return model.Command{}
	}
	if sc, ok := shortcuts[args[0]]; ok {
		return model.Command{Scope: sc.Scope, Operation: sc.Operation, Args: args[1:]}
	}
	cmd := model.Command{Scope: args[0]}
	if len(args) > 1 {
		cmd.Operation = args[1]
		cmd.Args = args[2:]
	}
	return cmd
}

// terminalPrompter reads input through readline and passwords through the
// terminal without echo.
type terminalPrompter struct {
	cli *CLI
}

func (p *terminalPrompter) Input(prompt string) (string, error) {
	if p.cli.RL == nil {
		return "", ui.ErrNotTerminal
	}
	p.cli.RL.SetPrompt(prompt)
	defer p.cli.RL.SetPrompt(p.cli.currentPrompt())
	line, err := p.cli.RL.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *terminalPrompter) Password(prompt string) (string, error) {
	return p.cli.UI.ReadPassword(prompt)
}
