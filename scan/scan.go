// Package scan coordinates backlink discovery and archive scans for target
// domains. It paginates search dorks through a Fetcher, decodes and filters
// the extracted result links, queries the archive index, and hands results
// to a ReportWriter.
package scan

import "log/slog"

// discard is used wherever a component is given no logger.
var discard = slog.New(slog.DiscardHandler)

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discard
	}
	return l
}
