package model

// DefaultIgnoredPaths is the packager ignore list written into every new record.
var DefaultIgnoredPaths = []string{".git"}

// WorkspaceRequest describes a single workspace to provision.
// It is created by the caller (wizard, CLI flags, bulk file entry) and consumed once.
type WorkspaceRequest struct {
	Title        string `json:"title" yaml:"title"`
	Language     string `json:"language" yaml:"language"`
	IsPrivate    bool   `json:"is_private" yaml:"is_private"`
	Template     string `json:"template,omitempty" yaml:"template,omitempty"`
	TeamID       string `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	CreateRemote *bool  `json:"create_remote,omitempty" yaml:"create_remote,omitempty"` // nil means "use defaults"
}

// Packager describes the package manager settings of a workspace.
type Packager struct {
	Language     string   `json:"language" yaml:"language"`
	IgnoredPaths []string `json:"ignoredPaths" yaml:"ignoredPaths"`
}

// LocalRecord is the persisted descriptor of one workspace.
// Its identity is the slug derived from the workspace title.
type LocalRecord struct {
	Run        string        `json:"run" yaml:"run"`
	Language   string        `json:"language" yaml:"language"`
	Entrypoint string        `json:"entrypoint" yaml:"entrypoint"`
	OnBoot     string        `json:"onBoot" yaml:"onBoot"`
	Packager   Packager      `json:"packager" yaml:"packager"`
	Template   string        `json:"template,omitempty" yaml:"template,omitempty"`
	TeamID     string        `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	IsPrivate  bool          `json:"is_private" yaml:"is_private"`
	Remote     *RemoteResult `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// HasRemote reports whether the record is mirrored by a remote workspace.
func (r *LocalRecord) HasRemote() bool { return r != nil && r.Remote != nil }

// RemoteResult is what the remote provider reports for a created workspace.
type RemoteResult struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	URL       string `json:"url" yaml:"url"`
	Language  string `json:"language" yaml:"language"`
	IsPrivate bool   `json:"isPrivate" yaml:"isPrivate"`
}

// RemoteUser identifies the account behind the remote credential.
type RemoteUser struct {
	Username    string `json:"username" yaml:"username"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// BulkStatus is the per-item status of a bulk job.
type BulkStatus string

const (
	BulkStatusSuccess BulkStatus = "success"
	BulkStatusError   BulkStatus = "error"
)

// BulkJobOutcome is the result of provisioning one bulk item.
type BulkJobOutcome struct {
	Title      string       `json:"title" yaml:"title"`
	Status     BulkStatus   `json:"status" yaml:"status"`
	Path       string       `json:"path,omitempty" yaml:"path,omitempty"`
	Record     *LocalRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Advisories []Advisory   `json:"advisories,omitempty" yaml:"advisories,omitempty"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
}
