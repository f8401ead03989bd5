package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
)

func TestFromFallsBackToDefault(t *testing.T) {
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
}

func TestWithEmbedsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("rated", "operation_id", "op-1")

	gt.String(t, buf.String()).Contains(`"operation_id":"op-1"`)
}

func TestJSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelWarn, logging.FormatJSON)

	logger.Info("hidden")
	logger.Warn("shown")

	gt.Bool(t, strings.Contains(buf.String(), "hidden")).False()
	gt.String(t, buf.String()).Contains("shown")
}

func TestSecretRedaction(t *testing.T) {
	type credential struct {
		User  string
		Token string `masq:"secret"`
	}

	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)
	logger.Info("login", "cred", credential{User: "analyst", Token: "s3cr3t-value"})

	gt.String(t, buf.String()).Contains("analyst")
	gt.Bool(t, strings.Contains(buf.String(), "s3cr3t-value")).False()
}
