// Package log builds [log/slog] handlers for the displaydoc command.
//
// It supports three output formats ([FormatText], [FormatLogfmt], and
// [FormatJSON]) and four severity levels ([LevelError], [LevelWarn],
// [LevelInfo], and [LevelDebug]). Text output is rendered by
// [charm.land/log/v2], which is friendlier on a terminal than the standard
// library's key=value output; logfmt and JSON use the [log/slog] handlers.
//
// [Level] and [Format] implement [pflag.Value], so an unknown name is
// rejected while flags are parsed. The command registers them on its root
// and installs the logger before running:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	slog.SetDefault(cfg.NewLogger(os.Stderr))
package log
