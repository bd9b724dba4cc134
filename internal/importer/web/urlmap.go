package web

import (
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSegmentLength caps a single path segment after sanitisation.
const maxSegmentLength = 120

// NormalizeURL canonicalises a URL for visited-set membership:
// scheme+host+path with the fragment and query stripped and the
// trailing slash trimmed. Equivalent URLs map to the same key so they
// are fetched at most once per run.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	u.Fragment = ""
	u.RawQuery = ""
	u.Path = strings.TrimRight(u.Path, "/")
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// PathForURL maps a URL to a deterministic, collision-free local path
// relative to the output directory. Segments are percent-decoded for
// readability and sanitised for filesystem safety; directory URLs map
// to index.md and every page gains a .md suffix. The page's own
// extension is kept (page.html becomes page.html.md) so distinct URLs
// never share a local path.
func PathForURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return "index.md", nil
	}

	var parts []string
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == "" {
			continue
		}
		parts = append(parts, SanitizeSegment(segment))
	}
	if len(parts) == 0 {
		return "index.md", nil
	}

	if strings.HasSuffix(u.Path, "/") {
		parts = append(parts, "index.md")
	} else if !strings.HasSuffix(parts[len(parts)-1], ".md") {
		parts[len(parts)-1] += ".md"
	}

	return path.Join(parts...), nil
}

// SanitizeSegment makes a URL path segment safe for the filesystem:
// percent-decoded, reserved and control characters replaced, leading
// and trailing dots and spaces trimmed, length capped.
func SanitizeSegment(segment string) string {
	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}

	var b strings.Builder
	for _, r := range segment {
		switch {
		case unicode.IsControl(r):
			// drop
		case strings.ContainsRune(`<>:"|?*/\`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.Trim(b.String(), " .")
	if len(cleaned) > maxSegmentLength {
		cut := maxSegmentLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
	}
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
