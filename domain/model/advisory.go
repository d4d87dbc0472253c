package model

import "fmt"

// AdvisoryCode classifies non-fatal conditions reported by provisioning.
type AdvisoryCode string

const (
	AdvisoryRemoteUnavailable  AdvisoryCode = "remote_unavailable"
	AdvisoryRemoteFailed       AdvisoryCode = "remote_failed"
	AdvisoryRecordUpdateFailed AdvisoryCode = "record_update_failed"
	AdvisoryRecordOverwritten  AdvisoryCode = "record_overwritten"
	AdvisoryTemplateFallback   AdvisoryCode = "template_fallback"
	AdvisoryTemplateUnknown    AdvisoryCode = "template_unknown"
	AdvisoryEntrypointSkipped  AdvisoryCode = "entrypoint_skipped"
	AdvisoryHistoryFailed      AdvisoryCode = "history_failed"
)

// Advisory is a non-fatal condition reported alongside a successful result.
type Advisory struct {
	Code    AdvisoryCode `json:"code" yaml:"code"`
	Message string       `json:"message" yaml:"message"`
	Err     error        `json:"-" yaml:"-"`
}

// NewAdvisory builds an advisory with a formatted message.
func NewAdvisory(code AdvisoryCode, err error, format string, args ...any) Advisory {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return Advisory{Code: code, Message: msg, Err: err}
}

func (a Advisory) String() string { return string(a.Code) + ": " + a.Message }
