package templates

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	iframeSrcDouble = regexp.MustCompile(`src="([^"]+)"`)
	iframeSrcSingle = regexp.MustCompile(`src='([^']+)'`)
	watchURLPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{6,})`)
)

// ErrUnplayableVideo marks an embed value that resolved to something other
// than an absolute http(s) URL.
var ErrUnplayableVideo = errors.New("video source is not a playable URL")

// NormalizeEmbedURL turns whatever the author pasted into the video embed
// field into an embeddable player URL. Clean embed URLs pass through; full
// iframe snippets have their src extracted (tolerating one or two rounds of
// percent-encoding the paste picked up); YouTube watch links are rewritten
// to their embed form. Anything else passes through for validation.
func NormalizeEmbedURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnplayableVideo
	}

	if isCleanEmbed(raw) {
		return requirePlayable(raw)
	}

	if src := extractIframeSrc(raw); src != "" {
		return requirePlayable(src)
	}

	if match := watchURLPattern.FindStringSubmatch(raw); match != nil {
		return requirePlayable("https://www.youtube.com/embed/" + match[1])
	}

	return requirePlayable(raw)
}

func isCleanEmbed(raw string) bool {
	return strings.Contains(raw, "youtube.com/embed/") ||
		strings.Contains(raw, "player.vimeo.com/video/")
}

// extractIframeSrc pulls the src attribute out of a pasted iframe fragment.
// Pastes arrive raw, singly or doubly percent-encoded depending on where the
// author copied them from, so each decoding is tried in turn.
func extractIframeSrc(raw string) string {
	candidates := []string{raw}
	if once, err := url.QueryUnescape(raw); err == nil && once != raw {
		candidates = append(candidates, once)
		if twice, err := url.QueryUnescape(once); err == nil && twice != once {
			candidates = append(candidates, twice)
		}
	}

	for _, candidate := range candidates {
		if !strings.Contains(candidate, "<iframe") {
			continue
		}
		if match := iframeSrcDouble.FindStringSubmatch(candidate); match != nil {
			return match[1]
		}
		if match := iframeSrcSingle.FindStringSubmatch(candidate); match != nil {
			return match[1]
		}
	}
	return ""
}

func requirePlayable(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", ErrUnplayableVideo
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrUnplayableVideo
	}
	if parsed.Host == "" {
		return "", ErrUnplayableVideo
	}
	return raw, nil
}
