package emulator

import (
	"os"
	"strings"
	"time"
)

// TimestampPlaceholder is replaced in FileTemplate by the formatted time.
const TimestampPlaceholder = "%timestamp%"

// ComposePath returns OutputDir/<FileTemplate with the timestamp substituted>.ext.
// It does not touch the filesystem.
func ComposePath(cfg Config, ext string, now time.Time) string {
	dir := strings.TrimRight(cfg.OutputDir, string(os.PathSeparator))
	base := strings.ReplaceAll(cfg.FileTemplate, TimestampPlaceholder, FormatDate(cfg.DateFormat, now))
	return dir + string(os.PathSeparator) + base + "." + ext
}
