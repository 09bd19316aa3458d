// Package logtail reads the end of flowdo's log file.
//
// Read and Tail keep a ring buffer of the last N lines, so memory stays
// proportional to N rather than to the size of the file. An optional Filter
// drops lines before they enter the buffer, which makes "the last 20 lines
// mentioning refresh" a single pass:
//
//	lines, err := logtail.Read(cfg.LogPath, 20, logtail.Contains("refresh"))
//
// Classify gives each line a coarse level for colouring in `flowdo logs`.
package logtail
