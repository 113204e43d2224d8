package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-history/internal/config"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"go.uber.org/zap/zapcore"
)

// BuildLogger creates the service logger: JSON on stdout, plus Better Stack
// and OpenTelemetry log shipping when configured. The returned func drains
// shippers and flushes the logger.
func BuildLogger(cfg config.Config) (*logging.Logger, func(context.Context) error, error) {
	var extra []zapcore.Core
	var shipper *betterStackWriteSyncer

	if cfg.BetterStackEnabled {
		core, syncer, err := newBetterStackCore(cfg)
		if err != nil {
			return nil, nil, err
		}
		extra = append(extra, core)
		shipper = syncer
	}
	if cfg.UptraceEnabled && cfg.UptraceLogsEnabled {
		extra = append(extra, newOTelLogCore(cfg.ServiceVersion, cfg.LogLevel))
	}

	logger := logging.NewJSONTee(cfg.LogLevel, extra...)
	if shipper != nil {
		logger.Info("betterstack enabled",
			"endpoint", shipper.endpoint,
			"min_level", cfg.BetterStackMinLevel.String(),
			"service_name", cfg.ServiceName,
			"environment", cfg.AppEnv,
		)
	} else {
		logger.Info("betterstack disabled", "reason", "BETTERSTACK_ENABLED=false")
	}

	return logger, func(ctx context.Context) error {
		if shipper != nil {
			drainCtx := ctx
			if drainCtx == nil {
				drainCtx = context.Background()
			}
			if _, hasDeadline := drainCtx.Deadline(); !hasDeadline {
				withTimeout, cancel := context.WithTimeout(drainCtx, 5*time.Second)
				defer cancel()
				drainCtx = withTimeout
			}
			if err := shipper.Close(drainCtx); err != nil {
				return fmt.Errorf("drain betterstack queue: %w", err)
			}
		}
		if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
			return err
		}
		return nil
	}, nil
}

// stdout cannot be fsynced on most terminals and pipes.
func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl")
}
