package golang

import (
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// initialisms are kept upper case, following the Go naming conventions.
var initialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "JWT": true, "OK": true, "SQL": true,
	"TCP": true, "TLS": true, "TTL": true, "UI": true, "URI": true,
	"URL": true, "UUID": true, "XML": true,
}

// words splits s at punctuation, spaces and lower-to-upper transitions.
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && len(cur) > 0 &&
			(unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

func pascal(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		if up := strings.ToUpper(w); initialisms[up] {
			b.WriteString(up)
			continue
		}
		b.WriteString(titleCaser.String(strings.ToLower(w)))
	}
	return b.String()
}

func camel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}
	first := strings.ToLower(ws[0])
	return first + pascal(strings.Join(ws[1:], " "))
}

// identifier makes s a usable Go identifier: it may not start with a digit
// and may not be a keyword.
func identifier(s, fallback string) string {
	if s == "" {
		return fallback
	}
	if unicode.IsDigit([]rune(s)[0]) {
		s = fallback + s
	}
	if token.IsKeyword(s) {
		s += "_"
	}
	return s
}

// fileName turns a group name into a lower-case file stem.
func fileName(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	if len(ws) == 0 {
		return "group"
	}
	return strings.Join(ws, "_")
}
