package main

import (
	"context"
	"errors"
	"time"

	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/logging"
)

// maxSpanErrLen bounds the error text carried by span end lines.
const maxSpanErrLen = 64

// withCmdRunLogger opens a command span. It logs CMD:<operation>/S, attaches
// resourceId to the context logger and returns the function that logs
// CMD:<operation>/EOK or CMD:<operation>/EFAIL with the elapsed seconds.
//
//	ctx, cleanup := withCmdRunLogger(ctx, "workspace.create", slug)
//	defer func() { cleanup(err) }()
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	start := time.Now()
	logger := logging.FromContext(ctx).With("resourceId", resourceID)
	ctx = logging.WithLogger(ctx, logger)
	logger.Info(ctx, "CMD:"+operation+"/S")

	return ctx, func(err error) {
		elapsed := time.Since(start).Seconds()
		if err == nil {
			logger.Info(ctx, "CMD:"+operation+"/EOK", "elapsed", elapsed)
			return
		}
		msg := err.Error()
		if len(msg) > maxSpanErrLen {
			msg = msg[:maxSpanErrLen] + "..."
		}
		logger.Info(ctx, "CMD:"+operation+"/EFAIL", "err", msg, "class", errorClass(err), "elapsed", elapsed)
	}
}

// errorClass names the failure family of err for span lines.
func errorClass(err error) string {
	var ce *model.ConfigurationError
	switch {
	case errors.As(err, &ce):
		return "configuration"
	case model.RemoteKind(err) != nil:
		return "remote"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "other"
}
