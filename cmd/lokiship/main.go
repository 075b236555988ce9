// main.go: lokiship command, ships lines from stdin or arguments to Loki
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agilira/lokiship"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stderr))
}

type options struct {
	configPath string
	endpoint   string
	user       string
	apiKey     string
	service    string
	device     string
	tenant     string
	labels     map[string]string
	level      string
	immediate  bool
	retries    int
	retryDelay time.Duration
	capacity   int
	noColor    bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("lokiship", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "YAML or JSONC config file")
	flagSet.StringVar(&opts.endpoint, "endpoint", "", "Loki push URL (http:// or https://)")
	flagSet.StringVar(&opts.user, "user", "", "basic auth username")
	flagSet.StringVar(&opts.apiKey, "api-key", "", "basic auth API key (default $LOKI_API_KEY)")
	flagSet.StringVar(&opts.service, "service", "", "service label")
	flagSet.StringVar(&opts.device, "device", "", "device label")
	flagSet.StringVar(&opts.tenant, "tenant", "", "X-Scope-OrgID tenant")
	flagSet.StringToStringVar(&opts.labels, "label", nil, "extra stream label key=value (repeatable)")
	flagSet.StringVarP(&opts.level, "level", "l", "INFO", "level of the shipped lines")
	flagSet.BoolVar(&opts.immediate, "immediate", false, "flush after every line")
	flagSet.IntVar(&opts.retries, "retries", 0, "send attempts per flush (default 3)")
	flagSet.DurationVar(&opts.retryDelay, "retry-delay", 0, "wait between attempts (default 1s)")
	flagSet.IntVar(&opts.capacity, "capacity", 0, "entries buffered before a flush (default 10)")
	flagSet.BoolVar(&opts.noColor, "no-color", false, "disable colored console output")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

// run returns the process exit code: 0 on success, 1 when delivery fails,
// 2 on usage or configuration errors.
func run(args []string, stdin io.Reader, stderr io.Writer) int {
	var opts options
	flagSet := newFlagSet(&opts)
	flagSet.SetOutput(stderr)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "lokiship: %v\n", err)
		return 2
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintf(stderr, "Usage: lokiship [flags] [message...]\n\nShips the message, or each stdin line, to Loki.\n\n")
		flagSet.PrintDefaults()
		return 0
	}

	cfg, err := buildConfig(flagSet, &opts)
	if err != nil {
		fmt.Fprintf(stderr, "lokiship: %v\n", err)
		return 2
	}
	level, err := lokiship.ParseLevel(opts.level)
	if err != nil {
		fmt.Fprintf(stderr, "lokiship: %v\n", err)
		return 2
	}

	var consoleOpts []lokiship.ConsoleOption
	if opts.noColor {
		consoleOpts = append(consoleOpts, lokiship.WithColor(false))
	}
	logger, err := lokiship.Open(cfg, lokiship.WithConsole(lokiship.NewConsole(stderr, consoleOpts...)))
	if err != nil {
		fmt.Fprintf(stderr, "lokiship: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := 0
	if err := ship(ctx, logger, level, opts.immediate, flagSet.Args(), stdin); err != nil {
		fmt.Fprintf(stderr, "lokiship: %v\n", err)
		status = 1
	}
	if err := logger.Close(); err != nil {
		fmt.Fprintf(stderr, "lokiship: final flush: %v\n", err)
		status = 1
	}
	return status
}

// buildConfig loads the config file, if any, and lets explicitly set flags
// override it.
func buildConfig(flagSet *pflag.FlagSet, opts *options) (lokiship.Config, error) {
	var cfg lokiship.Config
	if opts.configPath != "" {
		fc, err := lokiship.LoadConfigFile(opts.configPath)
		if err != nil {
			return cfg, err
		}
		if cfg, err = fc.Config(); err != nil {
			return cfg, err
		}
	}

	if flagSet.Changed("endpoint") {
		cfg.Endpoint = opts.endpoint
	}
	if flagSet.Changed("user") {
		cfg.Username = opts.user
	}
	if flagSet.Changed("api-key") {
		cfg.APIKey = opts.apiKey
	} else if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("LOKI_API_KEY")
	}
	if flagSet.Changed("service") {
		cfg.ServiceName = opts.service
	}
	if flagSet.Changed("device") {
		cfg.DeviceLabel = opts.device
	}
	if flagSet.Changed("tenant") {
		cfg.TenantID = opts.tenant
	}
	if len(opts.labels) > 0 {
		if cfg.Labels == nil {
			cfg.Labels = make(map[string]string, len(opts.labels))
		}
		for k, v := range opts.labels {
			cfg.Labels[k] = v
		}
	}
	if flagSet.Changed("retries") {
		cfg.MaxRetries = opts.retries
	}
	if flagSet.Changed("retry-delay") {
		cfg.RetryDelay = opts.retryDelay
	}
	if flagSet.Changed("capacity") {
		cfg.BufferCapacity = opts.capacity
	}
	if cfg.DeviceLabel == "" {
		cfg.DeviceLabel, _ = os.Hostname()
	}
	return cfg, nil
}

// ship logs the joined arguments as one message, or every stdin line when
// there are no arguments. It stops at the first entry the logger refuses.
func ship(ctx context.Context, logger *lokiship.Logger, level lokiship.Level, immediate bool, args []string, stdin io.Reader) error {
	if len(args) > 0 {
		_, err := logger.LogContext(ctx, level, strings.Join(args, " "), immediate)
		return err
	}

	reader := bufio.NewReader(stdin)
	for {
		line, err := readLine(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if _, err := logger.LogContext(ctx, level, line, immediate); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// readLine returns the next line without its terminator. Only the first
// reader-sized fragment of an overlong line is kept; the logger truncates
// messages well below that size anyway.
func readLine(r *bufio.Reader) (string, error) {
	fragment, isPrefix, err := r.ReadLine()
	if err != nil {
		return "", err
	}
	line := string(fragment)
	for isPrefix {
		if _, isPrefix, err = r.ReadLine(); err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
	}
	return line, nil
}
