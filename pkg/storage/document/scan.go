package document

import (
	"regexp"
	"strings"
	"sync"
)

// The scanner extracts known fields from object text without building
// a full syntax tree. Unknown fields and loose formatting pass
// through untouched, which is what keeps hand-edited documents
// loadable.

var (
	fieldRegexps   = map[string]*regexp.Regexp{}
	fieldRegexpsMu sync.Mutex
)

// stringField returns the unescaped value of the first string field
// with the given key, or "" when the key is absent.
func stringField(obj, key string) string {
	fieldRegexpsMu.Lock()
	re, ok := fieldRegexps[key]
	if !ok {
		re = regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
		fieldRegexps[key] = re
	}
	fieldRegexpsMu.Unlock()

	m := re.FindStringSubmatch(obj)
	if m == nil {
		return ""
	}
	return unescape(m[1])
}

// arrayContent returns the bracketed text of the named array,
// brackets included, or "" when the array is absent or unterminated.
// Brackets inside string values do not count towards nesting.
func arrayContent(obj, key string) string {
	at := strings.Index(obj, `"`+key+`"`)
	if at < 0 {
		return ""
	}
	start := strings.IndexByte(obj[at:], '[')
	if start < 0 {
		return ""
	}
	start += at

	depth := 0
	inString := false
	for i := start; i < len(obj); i++ {
		c := obj[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return obj[start : i+1]
			}
		}
	}
	return ""
}

// splitObjects returns every top-level brace-delimited object in the
// text, in order. Braces inside string values do not count.
func splitObjects(text string) []string {
	var objects []string
	depth := 0
	inString := false
	start := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, text[start:i+1])
				start = -1
			}
		}
	}
	return objects
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escape(s string) string { return escaper.Replace(s) }

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
