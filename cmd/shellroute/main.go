// Command shellroute is a terminal shell whose keyboard input is routed by a
// keybinding table to the prompt, the running job or the search overlay.
//
// Usage:
//
//	shellroute [flags]
//
// Flags:
//
//	    --config string             Path to the configuration file
//	-P, --platform string           Keybinding platform: auto, darwin, linux or windows (default "auto")
//	-s, --shell string              Shell used to run commands (default $SHELL, then /bin/sh)
//	-k, --keybindings-file string   YAML file with extra keybindings
//	    --history-file string       File to store command history in; empty disables it (default "~/.shellroute_history")
//	-p, --prompt string             Prompt string (default "$ ")
//	-l, --line-mode                 Use the line-oriented host even on a terminal
//	    --debug-ui                  Show dispatch decisions in the UI
//	-v, --verbose                   Verbose output
//	    --debug                     Debug output
//	    --list-bindings             Print the keybinding table and exit
//	-h, --help                      Display help information
//
// On a terminal shellroute runs full screen; with piped input, or with
// --line-mode, it reads one command per line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/tmc/shellroute"
	"github.com/tmc/shellroute/interactive"
	"github.com/tmc/shellroute/ui/keymap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// runOptions holds the flags that are not configuration.
type runOptions struct {
	configPath   string
	listBindings bool
	help         bool
}

func initFlags(args []string, stderr io.Writer) (*runOptions, *flag.FlagSet, error) {
	opts := &runOptions{}
	fs := flag.NewFlagSet("shellroute", flag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(stderr)
	shellroute.RegisterFlags(fs)
	fs.BoolVar(&opts.listBindings, "list-bindings", false, "Print the keybinding table and exit")
	fs.BoolVarP(&opts.help, "help", "h", false, "Display help information")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "shellroute is a terminal shell with a keybinding-driven input router")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage of shellroute:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	opts.configPath, _ = fs.GetString("config")
	return opts, fs, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, fs, err := initFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if opts.help {
		fs.Usage()
		return 0
	}

	cfg, err := shellroute.LoadConfig(opts.configPath, stderr, fs)
	if err != nil {
		fmt.Fprintf(stderr, "shellroute: %v\n", err)
		return 1
	}
	log, err := NewLogger(stderr, cfg.Verbose, cfg.Debug)
	if err != nil {
		fmt.Fprintf(stderr, "shellroute: %v\n", err)
		return 1
	}
	defer log.Sync()

	if opts.listBindings {
		table, err := cfg.Table()
		if err != nil {
			fmt.Fprintf(stderr, "shellroute: %v\n", err)
			return 1
		}
		printBindings(stdout, table)
		return 0
	}

	sc, err := cfg.SessionConfig(stdin, stdout, stderr, log)
	if err != nil {
		fmt.Fprintf(stderr, "shellroute: %v\n", err)
		return 1
	}
	s, err := interactive.NewSession(sc)
	if err != nil {
		fmt.Fprintf(stderr, "shellroute: %v\n", err)
		return 1
	}
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "shellroute: %v\n", err)
		return 1
	}
	return 0
}

// printBindings writes one tab-separated line per rule: action, keys, help.
func printBindings(w io.Writer, table *keymap.Table) {
	for _, r := range table.Rules() {
		h := r.Help.Help()
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Action, h.Key, h.Desc)
	}
}
