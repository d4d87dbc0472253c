package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kompox/replops/adapters/store/inmem"
	"github.com/kompox/replops/adapters/store/localfs"
	"github.com/kompox/replops/adapters/store/rdb"
	"github.com/kompox/replops/config/replenv"
	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/usecase/workspace"
)

// buildRepos creates the record store and the history store selected by db-url.
func buildRepos(cmd *cobra.Command) (*workspace.Repos, error) {
	st := stateOf(cmd)
	history, err := buildHistoryRepository(st)
	if err != nil {
		return nil, err
	}
	return &workspace.Repos{
		Records: localfs.NewRecordRepository(st.env.RecordDir),
		History: history,
	}, nil
}

// buildHistoryRepository returns nil when history is disabled.
func buildHistoryRepository(st *runState) (domain.HistoryRepository, error) {
	dbURL := st.env.DBURL
	switch {
	case dbURL == replenv.DBURLNone:
		return nil, nil

	case dbURL == replenv.DBURLMemory:
		return inmem.NewHistoryRepository(), nil

	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		if err := ensureSQLiteDir(dbURL); err != nil {
			return nil, err
		}
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		st.db = db
		return rdb.NewHistoryRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}

// ensureSQLiteDir creates the parent directory of a file-backed sqlite DSN.
func ensureSQLiteDir(dbURL string) error {
	_, dsn, _ := strings.Cut(dbURL, ":")
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		dsn = dsn[:i]
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating database directory %q: %w", dir, err)
	}
	return nil
}
