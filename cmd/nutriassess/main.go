// Package main provides the nutriassess binary: the HTTP service plus
// one-shot calculators for scripting.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"nutriassess/internal/config"
	"nutriassess/internal/domain"
	"nutriassess/internal/engine"
)

const (
	Version = "0.1.0"
	appName = "nutriassess"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Nutritional assessment and energy requirement service",
		Long: `nutriassess computes body composition from anthropometric measurements
and prescribes daily energy and macronutrient targets.

Run "serve" for the HTTP API, or "body" and "energy" to compute a single
result from a JSON document.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(&flags), bodyCmd(&flags), energyCmd(&flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

// setup loads configuration and builds the logger every command shares.
func setup(flags *globalFlags, stderr io.Writer) (*config.Config, *slog.Logger, error) {
	bootstrap := slog.New(slog.NewTextHandler(stderr, nil))
	cfg, err := config.NewLoader(bootstrap).Load(flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(stderr, opts)
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func bodyCmd(flags *globalFlags) *cobra.Command {
	var (
		input string
		sex   string
		age   int
	)

	cmd := &cobra.Command{
		Use:   "body",
		Short: "Compute body composition from a measurement document",
		Long: `Reads an anthropometric input document (weight, height, units,
circumferences, skinfolds, bioimpedance) and prints the assessment as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			eng, err := engine.New(cfg.Engine)
			if err != nil {
				return err
			}

			var in domain.AnthropometricInput
			if err := readJSON(cmd.InOrStdin(), input, &in); err != nil {
				return err
			}
			res, err := eng.ComputeBodyComposition(in, domain.Sex(sex), age)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Input file, or - for stdin")
	cmd.Flags().StringVar(&sex, "sex", "", "Biological sex (male, female)")
	cmd.Flags().IntVar(&age, "age", 0, "Age in whole years")
	_ = cmd.MarkFlagRequired("sex")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func energyCmd(flags *globalFlags) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Compute an energy and macronutrient prescription",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			eng, err := engine.New(cfg.Engine)
			if err != nil {
				return err
			}

			var in domain.EnergyInput
			if err := readJSON(cmd.InOrStdin(), input, &in); err != nil {
				return err
			}
			res, err := eng.ComputeEnergyProfile(in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Input file, or - for stdin")
	return cmd
}

func readJSON(stdin io.Reader, path string, dst any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
