// Package videoid extracts YouTube video identifiers from user supplied URLs.
package videoid

import "regexp"

// shapes lists the accepted URL shapes in priority order. Matching is
// unanchored, so a URL embedded in surrounding text still matches.
var shapes = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([^&]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([^?]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([^?]+)`),
}

// Extract returns the video identifier carried by rawURL. The first shape
// that matches wins; ok is false when none does.
func Extract(rawURL string) (id string, ok bool) {
	for _, re := range shapes {
		if m := re.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}
