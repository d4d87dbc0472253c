package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kompox/replops/config/replenv"
	"github.com/kompox/replops/internal/logging"
	"github.com/kompox/replops/internal/metrics"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "replops",
		Short:   "ReplOps CLI",
		Long:    "ReplOps provisions workspace records locally and, when a credential is available, on the remote provider.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Configuration document (env REPLOPS_CONFIG) (default .replops/config.json)")
	pf.String("config-dir", "", "Directory of workspace records (env REPLOPS_CONFIG_DIR) (default .repl-configs)")
	pf.StringP("work-dir", "C", "", "Directory for entry-point files (env REPLOPS_WORK_DIR) (default .)")
	pf.String("db-url", "", "History store (env REPLOPS_DB_URL) (none | memory | sqlite:/path/to.db) (default sqlite:.replops/history.db)")
	pf.String("log-format", "", "Log format (human|text|json) (env REPLOPS_LOG_FORMAT)")
	pf.String("log-level", "", "Log level (DEBUG|INFO|WARN|ERROR) (env REPLOPS_LOG_LEVEL)")
	pf.String("log-output", "", "Log output (- | none | auto | path) (env REPLOPS_LOG_OUTPUT)")
	pf.String("remote-endpoint", "", "Remote API endpoint (env REPLOPS_REMOTE_ENDPOINT)")
	pf.String("metrics-textfile", "", "Write provisioning metrics to this file when the command ends")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		env, err := replenv.Resolve(replenv.Flags{
			Config:         flagString(c, "config"),
			ConfigDir:      flagString(c, "config-dir"),
			WorkDir:        flagString(c, "work-dir"),
			DBURL:          flagString(c, "db-url"),
			LogFormat:      flagString(c, "log-format"),
			LogLevel:       flagString(c, "log-level"),
			LogOutput:      flagString(c, "log-output"),
			RemoteEndpoint: flagString(c, "remote-endpoint"),
		})
		if err != nil {
			return err
		}
		logCfg := &logging.LogConfig{
			Format:        env.Logging.Format,
			Level:         env.Logging.Level,
			Output:        env.Logging.Output,
			Dir:           env.Logging.Dir,
			RetentionDays: env.Logging.RetentionDays,
		}
		l, sink, err := logging.Open(logCfg)
		if err != nil {
			return err
		}
		if logCfg.Output == "" {
			_, _ = logging.PruneLogFiles(logCfg.Dir, logCfg.RetentionDays, time.Now())
		}
		l = l.With("runId", uuid.NewString())

		st := &runState{
			env:             env,
			logSink:         sink,
			metrics:         metrics.New(),
			metricsTextfile: flagString(c, "metrics-textfile"),
		}
		ctx := withRunState(logging.WithLogger(c.Context(), l), st)
		c.SetContext(ctx)
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdCreate())
	cmd.AddCommand(newCmdBulk())
	cmd.AddCommand(newCmdTemplates())
	cmd.AddCommand(newCmdRecords())
	cmd.AddCommand(newCmdHistory())
	cmd.AddCommand(newCmdAuth())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetContext(ctx)
	executed, err := root.ExecuteC()
	if executed != nil {
		ctx = executed.Context()
	}
	if st := runStateFrom(ctx); st != nil {
		st.close(ctx)
	}
	if err != nil {
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		if st := runStateFrom(ctx); st == nil || st.env.Logging.Output != "-" {
			fmt.Fprintf(os.Stderr, "Failed: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}
