// Package logger builds the slog loggers flagkit components use.
//
// The SDK never logs through a private logging framework: every component
// accepts a *slog.Logger and defaults to slog.Default(), so a host
// application's logging setup applies automatically. This package is for
// hosts (and the SDK's own tests) that want a ready-made structured logger
// without wiring handlers by hand.
//
// # Usage
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//	)
//	client, _ := flagkit.NewClient(cfg, flagkit.WithLogger(log))
//
// Attr helpers keep field names consistent across the SDK's log output:
//
//	log.Info("decision made", logger.FlagKey("checkout"), logger.UserID(uid))
package logger
