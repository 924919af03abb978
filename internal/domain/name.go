package domain

import "strings"

const (
	MaxViewerNameLen = 20
	AnonymousViewer  = "Anonymous"
)

// ViewerName returns the display name a viewer is shown under.
// Empty input becomes AnonymousViewer; longer names are cut to
// MaxViewerNameLen characters.
func ViewerName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return AnonymousViewer
	}
	if r := []rune(name); len(r) > MaxViewerNameLen {
		name = strings.TrimSpace(string(r[:MaxViewerNameLen]))
	}
	return name
}
