// S-expression reader shared by the domain and problem parsers. PDDL is
// case insensitive; atoms are lowercased on read. Comments run from ';'
// to end of line.
package pddl

import (
	"fmt"
	"strings"
	"unicode"
)

// sexpr is one node of the parse tree: either an atom or a list.
type sexpr struct {
	atom   string
	list   []sexpr
	isList bool
	line   int
}

// errorf builds a parse error tagged with the node's source line.
func (n sexpr) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("pddl: line %d: %s", n.line, fmt.Sprintf(format, args...))
}

type token struct {
	text string
	line int
}

// lex splits the source into parentheses and atoms, dropping comments.
func lex(src string) []token {
	var tokens []token
	line := 1
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case unicode.IsSpace(rune(c)):
			i++
		case c == ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '(' || c == ')':
			tokens = append(tokens, token{text: string(c), line: line})
			i++
		default:
			start := i
			for i < len(src) && src[i] != '(' && src[i] != ')' && src[i] != ';' &&
				!unicode.IsSpace(rune(src[i])) {
				i++
			}
			tokens = append(tokens, token{text: strings.ToLower(src[start:i]), line: line})
		}
	}
	return tokens
}

// parseSexpr reads one complete s-expression; trailing content is an error.
func parseSexpr(src string) (sexpr, error) {
	tokens := lex(src)
	if len(tokens) == 0 {
		return sexpr{}, fmt.Errorf("pddl: empty input")
	}
	node, rest, err := parseNode(tokens)
	if err != nil {
		return sexpr{}, err
	}
	if len(rest) != 0 {
		return sexpr{}, fmt.Errorf("pddl: line %d: unexpected content after expression", rest[0].line)
	}
	return node, nil
}

func parseNode(tokens []token) (sexpr, []token, error) {
	if len(tokens) == 0 {
		return sexpr{}, nil, fmt.Errorf("pddl: unexpected end of input")
	}
	tok := tokens[0]
	switch tok.text {
	case "(":
		node := sexpr{isList: true, line: tok.line}
		rest := tokens[1:]
		for {
			if len(rest) == 0 {
				return sexpr{}, nil, fmt.Errorf("pddl: line %d: unclosed parenthesis", tok.line)
			}
			if rest[0].text == ")" {
				return node, rest[1:], nil
			}
			child, remaining, err := parseNode(rest)
			if err != nil {
				return sexpr{}, nil, err
			}
			node.list = append(node.list, child)
			rest = remaining
		}
	case ")":
		return sexpr{}, nil, fmt.Errorf("pddl: line %d: unexpected ')'", tok.line)
	default:
		return sexpr{atom: tok.text, line: tok.line}, tokens[1:], nil
	}
}
