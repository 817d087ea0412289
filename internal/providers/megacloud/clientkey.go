package megacloud

import (
	"errors"
	"regexp"
	"strings"
)

var errNoClientKey = errors.New("no client key pattern matched")

var (
	quotedKey = regexp.MustCompile(`"[a-zA-Z0-9]+"`)
	lkDBParts = []*regexp.Regexp{
		regexp.MustCompile(`x:\s+"[a-zA-Z0-9]+"`),
		regexp.MustCompile(`y:\s+"[a-zA-Z0-9]+"`),
		regexp.MustCompile(`z:\s+"[a-zA-Z0-9]+"`),
	}
	commentKey = regexp.MustCompile(`_is_th:([a-zA-Z0-9]+)`)
)

// keyPattern is one of the ways the embed page hides its client key.
type keyPattern struct {
	re  *regexp.Regexp
	key func(match string) (string, bool)
}

// keyPatterns are tried in order; the page rotates between them.
var keyPatterns = []keyPattern{
	// <meta name="_gg_fb" content="KEY">
	{regexp.MustCompile(`<meta name="_gg_fb" content="[a-zA-Z0-9]+">`), quoted},
	// <!-- _is_th:KEY -->
	{regexp.MustCompile(`<!--\s+_is_th:[0-9a-zA-Z]+\s+-->`), fromComment},
	// window._lk_db = {x: "P1", y: "P2", z: "P3"}
	{regexp.MustCompile(`<script>window\._lk_db\s+=\s+\{[xyz]:\s+["'][a-zA-Z0-9]+["'],\s+[xyz]:\s+["'][a-zA-Z0-9]+["'],\s+[xyz]:\s+["'][a-zA-Z0-9]+["']\};</script>`), joinedParts},
	// <div data-dpi="KEY" ...></div>
	{regexp.MustCompile(`<div\s+data-dpi="[0-9a-zA-Z]+"\s+[^>]*></div>`), quoted},
	// <script nonce="KEY">
	{regexp.MustCompile(`<script nonce="[0-9a-zA-Z]+">`), quoted},
	// window._xy_ws = "KEY"
	{regexp.MustCompile(`<script>window\._xy_ws = ['"\x60][0-9a-zA-Z]+['"\x60];</script>`), quotedAny},
}

// extractClientKey finds the obfuscated client key in an embed page.
func extractClientKey(html string) (string, error) {
	for _, p := range keyPatterns {
		match := p.re.FindString(html)
		if match == "" {
			continue
		}
		if key, ok := p.key(match); ok {
			return key, nil
		}
	}
	return "", errNoClientKey
}

func quoted(match string) (string, bool) {
	val := quotedKey.FindString(match)
	return strings.Trim(val, `"`), val != ""
}

// quotedAny accepts the key in double, single or back quotes.
func quotedAny(match string) (string, bool) {
	if key, ok := quoted(match); ok {
		return key, true
	}
	start := strings.IndexAny(match, "'`")
	if start == -1 {
		return "", false
	}
	end := strings.IndexByte(match[start+1:], match[start])
	if end <= 0 {
		return "", false
	}
	return match[start+1 : start+1+end], true
}

func fromComment(match string) (string, bool) {
	m := commentKey.FindStringSubmatch(match)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func joinedParts(match string) (string, bool) {
	var b strings.Builder
	for _, part := range lkDBParts {
		val := quotedKey.FindString(part.FindString(match))
		if val == "" {
			return "", false
		}
		b.WriteString(strings.Trim(val, `"`))
	}
	return b.String(), true
}
