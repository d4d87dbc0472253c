package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/kompox/replops/config/replenv"
	"github.com/kompox/replops/internal/logging"
	"github.com/kompox/replops/internal/metrics"
)

// runState holds what PersistentPreRunE resolved for the running command.
type runState struct {
	env             *replenv.Env
	logSink         *logging.Sink
	metrics         *metrics.Metrics
	metricsTextfile string
	db              *gorm.DB
}

type runStateKey struct{}

func withRunState(ctx context.Context, st *runState) context.Context {
	return context.WithValue(ctx, runStateKey{}, st)
}

func runStateFrom(ctx context.Context) *runState {
	st, _ := ctx.Value(runStateKey{}).(*runState)
	return st
}

// close flushes metrics and releases the history database and the log file.
func (st *runState) close(ctx context.Context) {
	logger := logging.FromContext(ctx)
	if err := st.metrics.WriteTextfile(st.metricsTextfile); err != nil {
		logger.Warn(ctx, "cannot write metrics textfile", "path", st.metricsTextfile, "err", err)
	}
	if st.db != nil {
		if sqlDB, err := st.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = st.logSink.Close()
}

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

func flagString(cmd *cobra.Command, name string) string {
	if f := findFlag(cmd, name); f != nil {
		return f.Value.String()
	}
	return ""
}

// stateOf returns the run state of cmd. PersistentPreRunE always sets it.
func stateOf(cmd *cobra.Command) *runState {
	if st := runStateFrom(cmd.Context()); st != nil {
		return st
	}
	return &runState{env: &replenv.Env{}}
}
