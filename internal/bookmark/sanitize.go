package bookmark

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/joestump/joe-bookmarks/internal/store"
)

// allowedTags maps each tag that may pass through to the attributes it keeps.
var allowedTags = map[string]map[string]bool{
	"a":          {"href": true, "title": true, "target": true},
	"img":        {"src": true, "alt": true, "title": true, "width": true, "height": true},
	"b":          {},
	"i":          {},
	"u":          {},
	"em":         {},
	"strong":     {},
	"small":      {},
	"sub":        {},
	"sup":        {},
	"p":          {},
	"br":         {},
	"hr":         {},
	"span":       {},
	"div":        {},
	"code":       {},
	"pre":        {},
	"blockquote": {},
	"ul":         {},
	"ol":         {},
	"li":         {},
	"h1":         {},
	"h2":         {},
	"h3":         {},
	"h4":         {},
	"h5":         {},
	"h6":         {},
	"table":      {},
	"thead":      {},
	"tbody":      {},
	"tr":         {},
	"th":         {},
	"td":         {},
}

// urlAttrs are checked for script URLs.
var urlAttrs = map[string]bool{"href": true, "src": true}

var (
	textEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(`"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// Sanitize returns a copy of b whose title and description are safe to
// render as HTML. ID, URL and rating are unchanged.
func Sanitize(b store.Bookmark) store.Bookmark {
	b.Title = SanitizeHTML(b.Title)
	b.Description = SanitizeHTML(b.Description)
	return b
}

// SanitizeHTML neutralizes markup in s. Allowed tags are kept with only
// their allowed attributes, every other tag is escaped so it renders as
// text, and comments are dropped. Text outside tags is kept as written
// except that stray angle brackets are escaped.
func SanitizeHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// An unterminated tag at the end of input is kept as inert text.
			sb.WriteString(textEscaper.Replace(string(z.Raw())))
			return sb.String()
		}

		raw := string(z.Raw())
		switch tt {
		case html.TextToken:
			sb.WriteString(textEscaper.Replace(raw))
		case html.CommentToken:
			// dropped
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attrs, ok := allowedTags[tok.Data]
			if !ok {
				sb.WriteString(textEscaper.Replace(raw))
				continue
			}
			writeTag(&sb, tt, tok, attrs)
		default:
			sb.WriteString(textEscaper.Replace(raw))
		}
	}
}

func writeTag(sb *strings.Builder, tt html.TokenType, tok html.Token, allowed map[string]bool) {
	if tt == html.EndTagToken {
		sb.WriteString("</" + tok.Data + ">")
		return
	}

	sb.WriteString("<" + tok.Data)
	for _, a := range tok.Attr {
		if a.Namespace != "" || !allowed[a.Key] {
			continue
		}
		if urlAttrs[a.Key] && isScriptURL(a.Val) {
			continue
		}
		sb.WriteString(" " + a.Key + `="` + attrEscaper.Replace(a.Val) + `"`)
	}
	if tt == html.SelfClosingTagToken {
		sb.WriteString(" /")
	}
	sb.WriteString(">")
}

func isScriptURL(v string) bool {
	v = strings.ToLower(strings.Join(strings.Fields(v), ""))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:") || strings.HasPrefix(v, "data:text/html")
}
