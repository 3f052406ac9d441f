// Package cli implements the taskscheduler command line.
package cli

import (
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Collaborne/task-scheduler/internal/config"
	"github.com/Collaborne/task-scheduler/internal/logging"
)

// annotationLogToFile marks commands that own the terminal and must not log to stderr.
const annotationLogToFile = "log-to-file"

// app holds state shared by every subcommand of one invocation.
type app struct {
	configFile string
	logLevel   string
	theme      string
	today      string
	noJournal  bool

	cfg     *config.Config
	logger  zerolog.Logger
	logFile io.Closer
	now     func() time.Time
}

func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	a := &app{now: time.Now}
	cmd := &cobra.Command{
		Use:   "taskscheduler",
		Short: "Drag deadlines along a timeline",
		Long: "taskscheduler plots an ordered list of task deadlines against their progress " +
			"and lets you move them in time without breaking their order.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default $HOME/.config/taskscheduler/config.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|disabled")
	flags.StringVar(&a.theme, "theme", "", "theme: default|high-contrast")
	flags.StringVar(&a.today, "today", "", "pretend today is this date (YYYY-MM-DD)")
	flags.BoolVar(&a.noJournal, "no-journal", false, "do not record changes in the journal database")

	cmd.AddCommand(
		newUICmd(a),
		newShowCmd(a),
		newListCmd(a),
		newMoveCmd(a),
		newValidateCmd(a),
		newHistoryCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if a.configFile != "" {
		loader.SetConfigFile(a.configFile)
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loader.Set("logging.level", a.logLevel)
	}
	if flags.Changed("theme") {
		loader.Set("tui.theme", a.theme)
	}
	if flags.Changed("today") {
		loader.Set("timeline.today", a.today)
	}
	if a.noJournal {
		loader.Set("journal.enabled", false)
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.initLogging(cmd.Annotations[annotationLogToFile] == "true", cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.logger = logging.Component("cli")
	if used := loader.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("path", used).Msg("config loaded")
	}
	return nil
}

// initLogging writes to stderr, or to a file for commands that own the terminal.
func (a *app) initLogging(toFile bool, stderr io.Writer) error {
	path := a.cfg.Logging.File
	if path == "" && toFile {
		path = filepath.Join(a.cfg.Global.DataDir, "taskscheduler.log")
	}
	closer, err := logging.Setup(logging.Config{
		Level:        a.cfg.Logging.Level,
		Format:       a.cfg.Logging.Format,
		Output:       stderr,
		EnableCaller: a.cfg.Logging.EnableCaller,
		File:         path,
	})
	if err != nil {
		return err
	}
	a.logFile = closer
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// todayDate is the configured today override or the wall clock's day.
func (a *app) todayDate() time.Time {
	return a.cfg.Today(a.now())
}
