package status

import (
	"fmt"
)

// FileFormatter renders commit records as log messages
type FileFormatter interface {
	Describe(info FileInfo) string
	Progress(done, total int) string
}

// DefaultFileFormatter is the emoji formatter used by Manager
type DefaultFileFormatter struct{}

func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// Describe names what happened to a file
func (f *DefaultFileFormatter) Describe(info FileInfo) string {
	if info.Error != nil {
		return fmt.Sprintf("❌ %s: %v", info.Path, info.Error)
	}

	var msg string
	switch info.Status {
	case StatusNew:
		msg = "✨ created " + info.Path
	case StatusModified:
		msg = "📝 updated " + info.Path
	case StatusSkipped:
		msg = "⏭️  kept " + info.Path
	default:
		msg = "👍 unchanged " + info.Path
	}
	if info.Reason != "" {
		msg += " (" + info.Reason + ")"
	}
	return msg
}

// Progress reports how many staged files have been committed
func (f *DefaultFileFormatter) Progress(done, total int) string {
	if done >= total {
		return fmt.Sprintf("💾 committed %d files", total)
	}
	return fmt.Sprintf("⏳ committing %d/%d files", done, total)
}
