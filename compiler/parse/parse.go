package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lower/compiler/ast"
)

type (
	State struct {
		b []byte // all files concatenated

		files []file
	}

	file struct {
		base int
		size int
		name string
	}

	// SyntaxError is a parse failure at the absolute offset Pos.
	SyntaxError struct {
		Pos int
		Msg string
	}
)

func ParseFile(ctx context.Context, name string) (*State, []ast.Node, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read file")
	}

	s := New()

	s.AddFile(name, data)

	x, err := s.Parse(ctx)

	return s, x, err
}

func Parse(ctx context.Context, text []byte) (x []ast.Node, err error) {
	s := New()

	s.AddFile("", text)

	return s.Parse(ctx)
}

func New() *State {
	return &State{}
}

func (s *State) AddFile(name string, text []byte) {
	f := file{
		name: name,
		base: len(s.b),
		size: len(text),
	}

	s.b = append(s.b, text...)
	s.b = append(s.b, '\n')

	s.files = append(s.files, f)
}

// Parse reads all top level forms of all added files.
func (s *State) Parse(ctx context.Context) (x []ast.Node, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "parse", "files", len(s.files), "size", len(s.b))
	defer tr.Finish("err", &err)

	i := SpaceAll.SkipComments(s.b, 0)

	for i < len(s.b) {
		var n ast.Node

		n, i, err = s.form(s.b, i)
		if err != nil {
			return nil, s.wrap(err)
		}

		x = append(x, n)

		i = SpaceAll.SkipComments(s.b, i)
	}

	tr.V("parse_dump").Printw("parsed", "forms", len(x))

	return x, nil
}

func (s *State) Text(pos, end int) []byte {
	return s.b[pos:end]
}

// Position returns file:line:col of the absolute offset pos.
func (s *State) Position(pos int) string {
	for _, f := range s.files {
		if pos < f.base || pos > f.base+f.size {
			continue
		}

		line := 1 + bytes.Count(s.b[f.base:pos], []byte{'\n'})
		col := pos - f.base + 1

		if nl := bytes.LastIndexByte(s.b[f.base:pos], '\n'); nl >= 0 {
			col = pos - f.base - nl
		}

		name := f.name
		if name == "" {
			name = "<text>"
		}

		return fmt.Sprintf("%s:%d:%d", name, line, col)
	}

	return fmt.Sprintf("offset %d", pos)
}

func (s *State) form(b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	switch c := b[i]; {
	case c == '(':
		return s.list(b, i)
	case c == ')':
		return nil, i, SyntaxError{Pos: i, Msg: "unexpected ')'"}
	case c == '"':
		return s.str(b, i)
	case c == '-' && i+1 < len(b) && isDigit(b[i+1]), isDigit(c):
		return s.num(b, i)
	case isIdent(c):
		for i < len(b) && (isIdent(b[i]) || isDigit(b[i])) {
			i++
		}

		return ast.Ident{Base: ast.Base{Pos: st, End: i}, Name: string(b[st:i])}, i, nil
	default:
		return nil, i, SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected char %q", c)}
	}
}

func (s *State) list(b []byte, st int) (x ast.Node, i int, err error) {
	l := &ast.List{}
	l.Pos = st

	i = SpaceAll.SkipComments(b, st+1)

	for {
		if i == len(b) {
			return nil, i, SyntaxError{Pos: st, Msg: "unclosed list"}
		}

		if b[i] == ')' {
			i++
			break
		}

		var n ast.Node

		n, i, err = s.form(b, i)
		if err != nil {
			return nil, i, err
		}

		l.Items = append(l.Items, n)

		i = SpaceAll.SkipComments(b, i)
	}

	l.End = i

	return l, i, nil
}

func (s *State) str(b []byte, st int) (x ast.Node, i int, err error) {
	i = st + 1

	for i < len(b) && b[i] != '"' {
		if b[i] == '\\' {
			i++
		}

		i++
	}

	if i >= len(b) {
		return nil, i, SyntaxError{Pos: st, Msg: "unclosed string"}
	}

	i++

	v, err := strconv.Unquote(string(b[st:i]))
	if err != nil {
		return nil, i, SyntaxError{Pos: st, Msg: err.Error()}
	}

	return ast.String{Base: ast.Base{Pos: st, End: i}, Value: v}, i, nil
}

func (s *State) num(b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if b[i] == '-' {
		i++
	}

	for i < len(b) && (isDigit(b[i]) || isIdent(b[i])) {
		i++
	}

	v, err := strconv.ParseInt(string(b[st:i]), 0, 64)
	if err != nil {
		return nil, i, SyntaxError{Pos: st, Msg: fmt.Sprintf("bad number %q", b[st:i])}
	}

	return ast.Int{Base: ast.Base{Pos: st, End: i}, Value: v}, i, nil
}

func (s *State) wrap(err error) error {
	if e, ok := err.(SyntaxError); ok {
		return errors.Wrap(err, "%v", s.Position(e.Pos))
	}

	return err
}

func (e SyntaxError) Error() string {
	return e.Msg
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdent(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '_', c == '-', c == '.', c == '$', c == '<', c == '>', c == '=', c == '!', c == '+', c == '*', c == '/', c == '%':
		return true
	}

	return false
}
