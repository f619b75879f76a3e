package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"

	"maji/local-app/internal/api"
	"maji/local-app/internal/apierr"
	"maji/local-app/internal/cli"
	"maji/local-app/internal/config"
	"maji/local-app/internal/event"
	"maji/local-app/internal/log"
	"maji/local-app/internal/nav"
	"maji/local-app/internal/notify"
	"maji/local-app/internal/session"
	"maji/local-app/internal/storage"
	"maji/local-app/internal/ui"
	"maji/local-app/internal/view"
)

func main() {
	configPath := flag.String("config", "./data/config.json", "path of the JSON config file")
	flag.Parse()

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, scripts []string) error {
	// Load configuration
	config.SetPath(configPath)
	if err := config.ConfigLoad(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.ConfigGet()

	logger, err := log.NewLogger(log.Options{
		Folder:     cfg.LogFolder,
		CommandLog: cfg.CommandLog,
		ErrorLog:   cfg.ErrorLog,
		InfoLog:    cfg.InfoLog,
		Level:      log.ParseLevel(cfg.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	logger.Info(ctx, "Starting MAJI client", log.Fields{"api": cfg.APIBaseURL})

	events := event.NewEventManager(logger)

	// The client keeps working without local state; sessions just don't
	// survive a restart.
	var kv storage.KV
	var activity storage.ActivityLog
	db, err := storage.OpenSQLite(cfg.DatabasePath(), logger)
	if err != nil {
		logger.Error(ctx, "Local storage unavailable", log.Fields{"error": err})
		fmt.Fprintln(os.Stderr, "Aviso: no se pudo abrir el almacenamiento local; la sesión no se guardará.")
	} else {
		defer db.Close()
		kv = db
		activity = db
		event.AttachJournal(events, db, logger)
	}
	defer events.Wait()

	notifications := notify.NewChannel(notify.WithAutoDismiss(cfg.NotificationAutoDismiss.Std()))
	notifications.Forward(events)
	loading := notify.NewIndicator()
	errs := apierr.NewNormalizer(notifications, loading, logger)

	deps := &view.Deps{
		Sessions: session.NewStore(kv, events, logger),
		API: api.NewClient(api.Options{
			BaseURL:            cfg.APIBaseURL,
			Timeout:            cfg.RequestTimeout.Std(),
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}, errs, logger),
		Notifications: notifications,
		Loading:       loading,
		Navigator:     nav.NewNavigator(events, logger),
		Events:        events,
		Logger:        logger,
		RedirectDelay: cfg.RedirectDelay.Std(),
		MaxInFlight:   cfg.MaxInFlight,
	}

	// Initialize readline with history file from config
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	u := ui.NewUI(rl.Stdout(), cfg.UseColor && ui.ColorSupported(os.Stdout))
	c := cli.NewCLI(ctx, deps, u, rl, nil)
	c.Activity = activity
	defer c.Stop()

	u.PrintlnColored("MAJI Innovators", ui.ColorBold)
	u.Info("Escribe 'help' para ver los comandos.")
	c.Start()

	for _, script := range scripts {
		if err := c.ExecuteScript(script); err != nil {
			if errors.Is(err, cli.ErrExit) {
				return nil
			}
			logger.Error(ctx, "Script failed", log.Fields{"script": script, "error": err})
			u.Error(fmt.Sprintf("Error ejecutando %s: %v", script, err))
		}
	}

	// Main loop
	for {
		if ctx.Err() != nil {
			break
		}
		err := c.Run()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				u.Info("Usa 'exit' para salir.")
				continue
			} else if errors.Is(err, io.EOF) || errors.Is(err, cli.ErrExit) {
				break
			}
			c.Report(err)
		}
	}

	logger.Info(ctx, "MAJI client stopped", nil)
	return nil
}
