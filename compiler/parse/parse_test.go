package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/lower/compiler/ast"
)

func TestParse(t *testing.T) {
	x, err := Parse(context.Background(), []byte(`; loop
(for "count" ; to ten
	(cond (op load i) (op const 0x0a) (op lt))
	(body (op const -1)))
`))
	require.NoError(t, err)
	require.Len(t, x, 1)

	l, ok := x[0].(*ast.List)
	require.True(t, ok, "%T", x[0])

	head, ok := l.Head()
	assert.True(t, ok)
	assert.Equal(t, "for", head)

	require.Len(t, l.Items, 4)
	assert.Equal(t, "count", l.Items[1].(ast.String).Value)

	cond := l.Items[2].(*ast.List)
	require.Len(t, cond.Items, 4)

	c := cond.Items[2].(*ast.List)
	assert.Equal(t, int64(10), c.Items[2].(ast.Int).Value)

	body := l.Items[3].(*ast.List)
	assert.Equal(t, int64(-1), body.Items[1].(*ast.List).Items[2].(ast.Int).Value)
}

func TestParseSpans(t *testing.T) {
	x, err := Parse(context.Background(), []byte(`(a "b")`))
	require.NoError(t, err)

	l := x[0].(*ast.List)
	assert.Equal(t, ast.Base{Pos: 0, End: 7}, l.Span())
	assert.Equal(t, ast.Base{Pos: 1, End: 2}, l.Items[0].Span())
	assert.Equal(t, ast.Base{Pos: 3, End: 6}, l.Items[1].Span())
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		text string
		err  string
	}{
		{"(a (b)", "<text>:1:1: unclosed list"},
		{"(a)\n  )", "<text>:2:3: unexpected ')'"},
		{`(a "b)`, "<text>:1:4: unclosed string"},
		{"(a 12z)", `<text>:1:4: bad number "12z"`},
		{"(a #)", `<text>:1:4: unexpected char '#'`},
	} {
		_, err := Parse(context.Background(), []byte(tc.text))
		if assert.Error(t, err, tc.text) {
			assert.Equal(t, tc.err, err.Error(), tc.text)
		}
	}
}

func TestPosition(t *testing.T) {
	s := New()
	s.AddFile("a.flow", []byte("(a)\n(b)"))
	s.AddFile("b.flow", []byte("(c)"))

	assert.Equal(t, "a.flow:1:1", s.Position(0))
	assert.Equal(t, "a.flow:2:2", s.Position(5))
	assert.Equal(t, "b.flow:1:2", s.Position(9))
	assert.Equal(t, "b", string(s.Text(5, 6)))
}
