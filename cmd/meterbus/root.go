package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ganehag/meterbus-restaurant/internal/config"
	"github.com/ganehag/meterbus-restaurant/internal/options"
	"github.com/ganehag/meterbus-restaurant/pkg/mbus"
)

type flags struct {
	configPath string
	keyHex     string
	mode       string
	pretty     bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "meterbus [hex]",
		Short: "Decode wired M-Bus telegrams",
		Long: "meterbus decodes wired M-Bus (EN 13757-3) telegrams into JSON. Without an argument it\n" +
			"reads one hex telegram per line from stdin.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				in := cmd.InOrStdin()
				return runInteractive(in, cmd.OutOrStdout(), cfg, isTerminal(in))
			}
			return runDecode(cmd.OutOrStdout(), cfg, args[0])
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to a TOML config file")
	pf.StringVar(&f.keyHex, "key", "", "hex-encoded 16-byte AES key (32 hex chars)")
	pf.StringVar(&f.mode, "mode", string(options.ModeAuto), "decode mode: frame, body or auto")
	pf.BoolVar(&f.pretty, "pretty", false, "indent JSON output")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(f))
	return cmd
}

// resolve layers explicitly set flags over the config file and applies the
// log level.
func (f *flags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("key") {
		if _, err := options.ParseKeyHex(f.keyHex); err != nil {
			return config.Config{}, err
		}
		cfg.KeyHex = f.keyHex
	}
	if changed("mode") {
		mode, err := options.ParseMode(f.mode)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Mode = mode
	}
	if changed("pretty") {
		cfg.Pretty = f.pretty
	}
	if changed("log-level") {
		level, err := logrus.ParseLevel(f.logLevel)
		if err != nil {
			return config.Config{}, err
		}
		cfg.LogLevel = level
	}
	logrus.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// isTerminal reports whether r is an interactive terminal. Piped input
// gets no prompt.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runInteractive(in io.Reader, out io.Writer, cfg config.Config, prompt bool) error {
	scanner := bufio.NewScanner(in)
	if prompt {
		logrus.Info("meterbus decode mode. Paste a hex telegram and press Enter (Ctrl+D to exit).")
	}
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runDecode(out, cfg, line); err != nil {
			logrus.WithError(err).Error("failed to decode telegram")
		}
	}
	return scanner.Err()
}

func runDecode(out io.Writer, cfg config.Config, hex string) error {
	doc, err := mbus.DecodeHex(hex, cfg.Mode, mbus.Options{KeyHex: cfg.KeyHex})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"records": len(doc.Records),
		"framed":  doc.Frame != nil,
	}).Debug("decoded telegram")

	if cfg.Pretty {
		fmt.Fprintln(out, doc.String())
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}
