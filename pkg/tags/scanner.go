package tags

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Node is a scanned fragment: either Text or *Tag.
type Node interface {
	isNode()
}

// Text is template source that belongs to the template renderer.
type Text string

func (Text) isNode() {}

// Tag is one invocation of a registered namespace.
type Tag struct {
	Namespace string
	Method    string
	Params    Params
	// Content is the raw source between the opening and closing markers. It is
	// empty for self-closing tags.
	Content string
	Paired  bool
	Line    int
	Column  int
}

func (*Tag) isNode() {}

// Name returns the `namespace:method` form of the tag.
func (t *Tag) Name() string {
	return t.Namespace + ":" + t.Method
}

// NamespaceFunc reports whether a namespace is handled by a plugin.
type NamespaceFunc func(namespace string) bool

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenOpen
	tokenClose
)

type token struct {
	kind      tokenKind
	start     int
	end       int
	name      string
	namespace string
	method    string
	params    Params
}

// Scan splits src into text and tag nodes. Opening tags are paired with the
// nearest balanced closing marker of the same name; an opening tag without a
// closing marker is self-closing.
func Scan(src string, known NamespaceFunc) ([]Node, error) {
	toks, err := lex(src, known)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch tok.kind {
		case tokenText:
			nodes = append(nodes, Text(src[tok.start:tok.end]))
		case tokenClose:
			return nil, syntaxError(src, tok.start, fmt.Sprintf("unexpected closing tag %q", tok.name))
		case tokenOpen:
			line, col := position(src, tok.start)
			tag := &Tag{
				Namespace: tok.namespace,
				Method:    tok.method,
				Params:    tok.params,
				Line:      line,
				Column:    col,
			}
			if j := matchClose(toks, i); j >= 0 {
				tag.Content = src[tok.end:toks[j].start]
				tag.Paired = true
				i = j
			}
			nodes = append(nodes, tag)
		}
	}
	return nodes, nil
}

func matchClose(toks []token, open int) int {
	name := toks[open].name
	depth := 0
	for j := open + 1; j < len(toks); j++ {
		if toks[j].name != name {
			continue
		}
		switch toks[j].kind {
		case tokenOpen:
			depth++
		case tokenClose:
			if depth == 0 {
				return j
			}
			depth--
		}
	}
	return -1
}

func lex(src string, known NamespaceFunc) ([]token, error) {
	var (
		toks      []token
		pos       int
		textStart int
	)

	emitText := func(end int) {
		if end > textStart {
			toks = append(toks, token{kind: tokenText, start: textStart, end: end})
		}
	}

	for {
		idx := strings.Index(src[pos:], openDelim)
		if idx < 0 {
			break
		}
		start := pos + idx
		end, err := findClose(src, start+len(openDelim))
		if err != nil {
			return nil, err
		}
		next := end + len(closeDelim)
		inner := strings.TrimSpace(src[start+len(openDelim) : end])

		if strings.HasPrefix(inner, "/") {
			name := strings.TrimSpace(inner[1:])
			if ns, method, ok := splitName(name); ok && known(ns) {
				emitText(start)
				toks = append(toks, token{
					kind: tokenClose, start: start, end: next,
					name: name, namespace: ns, method: method,
				})
				textStart = next
			}
			pos = next
			continue
		}

		head, rest := cutWord(inner)
		if ns, method, ok := splitName(head); ok && known(ns) {
			restOffset := start + len(openDelim) + strings.Index(src[start+len(openDelim):end], head) + len(head)
			params, err := parseParams(src, rest, restOffset)
			if err != nil {
				return nil, err
			}
			emitText(start)
			toks = append(toks, token{
				kind: tokenOpen, start: start, end: next,
				name: head, namespace: ns, method: method, params: params,
			})
			textStart = next
		}
		pos = next
	}

	emitText(len(src))
	return toks, nil
}

// findClose returns the offset of the closing delimiter, skipping over quoted
// strings so a literal "}}" inside a parameter does not end the tag.
func findClose(src string, from int) (int, error) {
	var quote byte
	for i := from; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '}':
			if strings.HasPrefix(src[i:], closeDelim) {
				return i, nil
			}
		}
	}
	if quote != 0 {
		return 0, syntaxError(src, from-len(openDelim), "unterminated quoted string")
	}
	return 0, syntaxError(src, from-len(openDelim), "unclosed "+openDelim)
}

func splitName(s string) (string, string, bool) {
	ns, method, ok := strings.Cut(s, ":")
	if !ok || ns == "" || method == "" {
		return "", "", false
	}
	for _, r := range ns {
		if !isNameRune(r) {
			return "", "", false
		}
	}
	for _, r := range method {
		if !isNameRune(r) && r != '.' {
			return "", "", false
		}
	}
	return ns, method, true
}

func isNameRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func cutWord(s string) (string, string) {
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}

// parseParams reads `name="value"`, `name='value'`, `name=value` and bare
// `flag` entries. offset locates rest inside src for error positions.
func parseParams(src, rest string, offset int) (Params, error) {
	var (
		params Params
		i      int
	)
	for {
		for i < len(rest) && unicode.IsSpace(rune(rest[i])) {
			i++
		}
		if i >= len(rest) {
			return params, nil
		}

		nameStart := i
		for i < len(rest) && rest[i] != '=' && !unicode.IsSpace(rune(rest[i])) {
			i++
		}
		name := rest[nameStart:i]
		if name == "" {
			return nil, syntaxError(src, offset+i, "missing parameter name")
		}

		j := i
		for j < len(rest) && unicode.IsSpace(rune(rest[j])) {
			j++
		}
		if j >= len(rest) || rest[j] != '=' {
			params = append(params, Param{Name: name, Value: "true"})
			continue
		}
		i = j + 1
		for i < len(rest) && unicode.IsSpace(rune(rest[i])) {
			i++
		}
		if i >= len(rest) {
			return nil, syntaxError(src, offset+i, fmt.Sprintf("missing value for parameter %q", name))
		}

		if q := rest[i]; q == '"' || q == '\'' {
			value, n, ok := readQuoted(rest[i:], q)
			if !ok {
				return nil, syntaxError(src, offset+i, "unterminated quoted string")
			}
			params = append(params, Param{Name: name, Value: value})
			i += n
			continue
		}

		valueStart := i
		for i < len(rest) && !unicode.IsSpace(rune(rest[i])) {
			i++
		}
		params = append(params, Param{Name: name, Value: rest[valueStart:i]})
	}
}

// readQuoted consumes a quoted value starting at s[0] and returns the
// unescaped value and the number of bytes consumed.
func readQuoted(s string, quote byte) (string, int, bool) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == quote || s[i+1] == '\\'):
			b.WriteByte(s[i+1])
			i++
		case c == quote:
			return b.String(), i + 1, true
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, false
}

func syntaxError(src string, offset int, msg string) *SyntaxError {
	line, col := position(src, offset)
	return &SyntaxError{Line: line, Column: col, Msg: msg}
}

func position(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	col := offset - strings.LastIndex(src[:offset], "\n")
	return line, col
}
