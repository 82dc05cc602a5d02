package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/soypat/penfix/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "penfix",
	Short: "Normalize pen meshes: origin at the tip, same length",
	Long: `penfix moves the origin of each pen mesh to its tip and uniformly
rescales it so its largest dimension equals a target length (0.15 by default).
Meshes are read from STL or OBJ files, or from a YAML scene manifest, and
written back as STL.`,
	SilenceUsage: true,
}

var flags struct {
	config   string
	target   float64
	policy   string
	out      string
	logLevel string
	frame    string
	ascii    bool
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "TOML configuration file")
	pf.Float64Var(&flags.target, "target", 0, "target length of the largest dimension")
	pf.StringVar(&flags.policy, "policy", "", `failure policy: "fail-fast" or "best-effort"`)
	pf.StringVarP(&flags.out, "out", "o", "", "output directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.frame, "frame", "", `frame of written meshes: "local" or "world"`)
	pf.BoolVar(&flags.ascii, "ascii", false, "write ASCII STL")
	rootCmd.AddCommand(fixCmd, sceneCmd, inspectCmd)
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if flags.config != "" {
		var err error
		cfg, err = config.Load(flags.config)
		if err != nil {
			return cfg, err
		}
	}
	f := cmd.Flags()
	if f.Changed("target") {
		cfg.TargetLength = flags.target
	}
	if f.Changed("policy") {
		cfg.Policy = flags.policy
	}
	if f.Changed("out") {
		cfg.OutputDir = flags.out
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("frame") {
		cfg.Frame = flags.frame
	}
	if f.Changed("ascii") {
		cfg.ASCII = flags.ascii
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "penfix",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err == nil {
		l.SetLevel(level)
	}
	return l
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
