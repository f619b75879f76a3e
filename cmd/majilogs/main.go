package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"maji/local-app/internal/log"
	"maji/local-app/internal/ui"
)

func printHelp() {
	fmt.Println("Usage: majilogs [log directory] [-r <refresh rate in seconds>] [-filter <text>] [-h]")
	fmt.Println("\nOptions:")
	fmt.Println("  [log directory]      Path to the directory containing log files (default: ./logs/)")
	fmt.Println("  -r                   Refresh rate in seconds (default: 1)")
	fmt.Println("  -filter              Only show entries containing this text (case insensitive)")
	fmt.Println("  -h                   Show this help message")
	fmt.Println("\nDescription:")
	fmt.Println("  Follows the command, error and info logs of the MAJI client and prints")
	fmt.Println("  their JSON entries in a compact format. Press Ctrl-C to exit.")
}

func main() {
	var (
		refreshRate int
		filter      string
		help        bool
	)
	flag.IntVar(&refreshRate, "r", 1, "Refresh rate in seconds")
	flag.StringVar(&filter, "filter", "", "Only show entries containing this text")
	flag.BoolVar(&help, "h", false, "Show help")
	flag.Parse()

	if help {
		printHelp()
		return
	}
	if refreshRate < 1 {
		refreshRate = 1
	}

	logDir := "./logs/"
	if args := flag.Args(); len(args) > 0 {
		logDir = args[0]
	}
	if fileInfo, err := os.Stat(logDir); err != nil || !fileInfo.IsDir() {
		fmt.Fprintf(os.Stderr, "Log directory '%s' does not exist. Please specify a valid directory.\n", logDir)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	useColor := ui.ColorSupported(os.Stdout)
	filter = strings.ToLower(filter)
	follower := log.NewFollower(logDir)

	fmt.Printf("Monitoring logs in directory: %s\n", logDir)
	ticker := time.NewTicker(time.Duration(refreshRate) * time.Second)
	defer ticker.Stop()

	for {
		err := follower.Poll(func(file, line string) {
			formatted, err := log.FormatEntry([]byte(line), useColor)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
				return
			}
			if filter == "" || strings.Contains(strings.ToLower(formatted), filter) {
				fmt.Println(formatted)
			}
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}

		select {
		case <-ctx.Done():
			fmt.Println("\nExiting...")
			return
		case <-ticker.C:
		}
	}
}
