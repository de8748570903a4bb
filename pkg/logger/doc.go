// Package logger builds the service's slog.Logger: environment presets
// (text+debug for development, JSON+info elsewhere), static service
// attributes, and context extractors that inject request-scoped values such
// as request IDs into every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "notifyd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
package logger
