// Package replenv resolves where replops keeps its files and how it reaches
// the remote provider, from command-line flags and environment variables.
package replenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variable names
const (
	ConfigEnvKey         = "REPLOPS_CONFIG"
	ConfigDirEnvKey      = "REPLOPS_CONFIG_DIR"
	WorkDirEnvKey        = "REPLOPS_WORK_DIR"
	DBURLEnvKey          = "REPLOPS_DB_URL"
	LogFormatEnvKey      = "REPLOPS_LOG_FORMAT"
	LogLevelEnvKey       = "REPLOPS_LOG_LEVEL"
	LogOutputEnvKey      = "REPLOPS_LOG_OUTPUT"
	LogRetentionEnvKey   = "REPLOPS_LOG_RETENTION_DAYS"
	RemoteEndpointEnvKey = "REPLOPS_REMOTE_ENDPOINT"
	TokenEnvKey          = "REPLIT_TOKEN"
)

// Directory and file names
const (
	StateDirName      = ".replops"
	ConfigFileName    = "config.json"
	RecordDirName     = ".repl-configs"
	HistoryDBFileName = "history.db"
	LogDirName        = "logs"
)

// Special db-url values.
const (
	DBURLNone   = "none"
	DBURLMemory = "memory"
)

// LogOutputAuto selects a generated log file under the state directory.
const LogOutputAuto = "auto"

// DefaultLogRetentionDays is used when no retention is configured.
const DefaultLogRetentionDays = 7

// Flags carries values given on the command line. Empty fields fall back to
// the environment, then to defaults.
type Flags struct {
	Config         string
	ConfigDir      string
	WorkDir        string
	DBURL          string
	LogFormat      string
	LogLevel       string
	LogOutput      string
	RemoteEndpoint string
}

// Env is the resolved environment.
type Env struct {
	WorkDir        string // entry points are written here
	StateDir       string // $WorkDir/.replops
	ConfigPath     string // configuration document
	RecordDir      string // LocalRecord documents
	DBURL          string // history store: none | memory | sqlite:<path>
	RemoteEndpoint string // empty means the client default
	Token          string // remote credential; empty disables the remote client
	Logging        Logging
}

// Logging holds the resolved log settings.
type Logging struct {
	Format        string
	Level         string
	Output        string // "-" (stderr), "none", a path, or "" for an auto-named file in Dir
	Dir           string
	RetentionDays int
}

// Resolve builds an Env from flags and the process environment.
func Resolve(f Flags) (*Env, error) {
	return ResolveWith(f, os.Getenv)
}

// ResolveWith is Resolve with an explicit environment lookup.
func ResolveWith(f Flags, getenv func(string) string) (*Env, error) {
	pick := func(flag, key string) string {
		if flag != "" {
			return flag
		}
		return strings.TrimSpace(getenv(key))
	}

	workDir := pick(f.WorkDir, WorkDirEnvKey)
	if workDir == "" {
		workDir = "."
	}
	workDir, err := absClean(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolving work dir: %w", err)
	}
	if info, err := os.Stat(workDir); err != nil {
		return nil, fmt.Errorf("work dir %q does not exist: %w", workDir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("work dir %q is not a directory", workDir)
	}

	e := &Env{
		WorkDir:        workDir,
		StateDir:       filepath.Join(workDir, StateDirName),
		RemoteEndpoint: pick(f.RemoteEndpoint, RemoteEndpointEnvKey),
		Token:          strings.TrimSpace(getenv(TokenEnvKey)),
	}

	if e.ConfigPath, err = e.path(pick(f.Config, ConfigEnvKey), filepath.Join(e.StateDir, ConfigFileName)); err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	if e.RecordDir, err = e.path(pick(f.ConfigDir, ConfigDirEnvKey), filepath.Join(workDir, RecordDirName)); err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	e.DBURL = pick(f.DBURL, DBURLEnvKey)
	if e.DBURL == "" {
		e.DBURL = "sqlite:" + filepath.Join(e.StateDir, HistoryDBFileName)
	}
	if err := validateDBURL(e.DBURL); err != nil {
		return nil, err
	}

	e.Logging = Logging{
		Format:        pick(f.LogFormat, LogFormatEnvKey),
		Level:         pick(f.LogLevel, LogLevelEnvKey),
		Output:        pick(f.LogOutput, LogOutputEnvKey),
		Dir:           filepath.Join(e.StateDir, LogDirName),
		RetentionDays: DefaultLogRetentionDays,
	}
	switch e.Logging.Output {
	case "":
		e.Logging.Output = "-"
	case LogOutputAuto:
		e.Logging.Output = ""
	}
	if v := strings.TrimSpace(getenv(LogRetentionEnvKey)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s: invalid value %q", LogRetentionEnvKey, v)
		}
		e.Logging.RetentionDays = n
	}
	return e, nil
}

// path resolves p against the work dir, or returns def when p is empty.
func (e *Env) path(p, def string) (string, error) {
	if p == "" {
		return def, nil
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(e.WorkDir, p)
	}
	return filepath.Clean(p), nil
}

// ConfigDir returns the directory holding the configuration document.
// Relative template paths resolve against it.
func (e *Env) ConfigDir() string {
	return filepath.Dir(e.ConfigPath)
}

// RemoteEnabled reports whether a remote credential is present.
func (e *Env) RemoteEnabled() bool {
	return e.Token != ""
}

func validateDBURL(u string) error {
	switch {
	case u == DBURLNone, u == DBURLMemory:
		return nil
	case strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "sqlite3:"):
		return nil
	}
	return fmt.Errorf("unsupported db url: %s", u)
}

func absClean(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
