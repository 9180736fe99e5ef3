package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a client is configured.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logError(ctx, msg, err)
	sentry.CaptureException(err)
}

// HandleHTTP logs the error and writes a JSON error response. Only 5xx errors are sent to Sentry.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	if statusCode >= http.StatusInternalServerError {
		logError(ctx, "HTTP error", err, "status", statusCode)
		sentry.CaptureException(err)
	} else {
		logging.From(ctx).Warn("HTTP client error", "status", statusCode, "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	_, _ = w.Write(body)
}

func logError(ctx context.Context, msg string, err error, args ...any) {
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		args = append(args,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		args = append(args, "error", err.Error())
	}
	logger.Error(msg, args...)
}
