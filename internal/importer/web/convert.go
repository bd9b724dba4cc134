package web

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML conversion performance.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	navTag       = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	footerTag    = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	svgTag       = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)

	headingTag = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	anchorTag  = regexp.MustCompile(`(?is)<a\s[^>]*href=["']([^"']+)["'][^>]*>(.*?)</a>`)
	preTag     = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	codeTag    = regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)
	strongTag  = regexp.MustCompile(`(?is)<(?:strong|b)[^>]*>(.*?)</(?:strong|b)>`)
	emTag      = regexp.MustCompile(`(?is)<(?:em|i)[^>]*>(.*?)</(?:em|i)>`)
	listItem   = regexp.MustCompile(`(?is)<li[^>]*>`)

	blockClose = regexp.MustCompile(`(?i)</(p|div|li|ul|ol|tr|blockquote|table|section|article|main)>`)
	blockOpen  = regexp.MustCompile(`(?i)<(p|div|ul|ol|tr|blockquote|table|section|article|main)[^>]*>`)
	brTags     = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags     = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags    = regexp.MustCompile(`<[^>]+>`)

	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)

	hrefAttr = regexp.MustCompile(`(?is)<a\s[^>]*href=["']([^"']+)["']`)
)

// ToMarkdown converts an HTML page to normalised lightweight markdown.
// Navigation, scripts and styling are stripped; headings, links,
// emphasis, list items and code survive as markdown syntax.
func ToMarkdown(htmlContent string) string {
	content := htmlContent

	// Remove non-content blocks entirely.
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Headings become ATX markdown.
	content = headingTag.ReplaceAllStringFunc(content, func(match string) string {
		groups := headingTag.FindStringSubmatch(match)
		level := int(groups[1][0] - '0')
		text := strings.TrimSpace(allTags.ReplaceAllString(groups[2], ""))
		return "\n" + strings.Repeat("#", level) + " " + text + "\n"
	})

	// Links, emphasis and code.
	content = anchorTag.ReplaceAllStringFunc(content, func(match string) string {
		groups := anchorTag.FindStringSubmatch(match)
		text := strings.TrimSpace(allTags.ReplaceAllString(groups[2], ""))
		if text == "" {
			return ""
		}
		return fmt.Sprintf("[%s](%s)", text, groups[1])
	})
	content = preTag.ReplaceAllString(content, "\n```\n$1\n```\n")
	content = codeTag.ReplaceAllString(content, "`$1`")
	content = strongTag.ReplaceAllString(content, "**$1**")
	content = emTag.ReplaceAllString(content, "*$1*")
	content = listItem.ReplaceAllString(content, "\n* ")

	// Block boundaries become newlines.
	content = blockOpen.ReplaceAllString(content, "\n")
	content = blockClose.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n---\n")

	// Strip whatever markup remains, then decode entities.
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	// Collapse whitespace while preserving paragraph breaks.
	content = multiSpaces.ReplaceAllString(content, " ")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// ExtractLinks returns the absolute form of every anchor href in the
// page, resolved against the page URL. Unparseable hrefs are skipped.
func ExtractLinks(htmlContent string, pageURL *url.URL) []string {
	var links []string
	for _, match := range hrefAttr.FindAllStringSubmatch(htmlContent, -1) {
		href := html.UnescapeString(match[1])
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		links = append(links, pageURL.ResolveReference(ref).String())
	}
	return links
}
