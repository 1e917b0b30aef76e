package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/lower/compiler/node"
	"github.com/slowlang/lower/compiler/parse"
)

func build(t *testing.T, text string) (*Front, *node.Block, error) {
	t.Helper()

	st := parse.New()
	st.AddFile("", []byte(text))

	x, err := st.Parse(context.Background())
	require.NoError(t, err)

	c := New(st, nil)

	b, err := c.Build(context.Background(), x)

	return c, b, err
}

func TestBuildFor(t *testing.T) {
	c, b, err := build(t, `(for "loop"
		(init (op const 0) (op store i))
		(cond (op load i))
		(body (if-true out) (continue) (break))
		(update (op nop)))
		(label out)`)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	f, ok := b.Nodes()[0].(*node.For)
	require.True(t, ok)

	assert.Equal(t, "loop", f.Comment())
	assert.Equal(t, 1, f.InitBlock().Len())
	assert.Equal(t, node.Op{Code: "load", Args: []any{"i"}, Push: 1}, f.CondBlock().Nodes()[0])
	assert.Equal(t, node.Op{Code: "nop"}, f.UpdateBlock().Nodes()[0])

	body := f.BodyBlock().Nodes()[0].(*node.Block)

	assert.Equal(t, []node.Node{
		node.Jump{Cond: node.IfTrue, Label: c.Label("out")},
		node.Jump{Label: f.ContinueLabel(), Desc: "continue"},
		node.Jump{Label: f.EndLabel(), Desc: "break"},
	}, body.Nodes())

	assert.Equal(t, node.Place{Label: c.Label("out"), Desc: "out"}, b.Nodes()[1])
}

func TestBuildNested(t *testing.T) {
	_, b, err := build(t, `(for "outer" (cond (op load a)) (body
		(for "inner" (cond (op load b)) (body (break)))
		(continue)))`)
	require.NoError(t, err)

	outer := b.Nodes()[0].(*node.For)
	body := outer.BodyBlock().Nodes()[0].(*node.Block)
	inner := body.Nodes()[0].(*node.For)

	assert.Equal(t, node.Jump{Label: inner.EndLabel(), Desc: "break"}, inner.BodyBlock().Nodes()[0])
	assert.Equal(t, node.Jump{Label: outer.ContinueLabel(), Desc: "continue"}, body.Nodes()[1])
}

func TestBuildBlock(t *testing.T) {
	_, b, err := build(t, `(block "desc" (op const -5) (op call f "s" 2))`)
	require.NoError(t, err)

	x := b.Nodes()[0].(*node.Block)

	assert.Equal(t, "desc", x.Description())
	assert.Equal(t, []node.Node{
		node.Op{Code: "const", Args: []any{int64(-5)}, Push: 1},
		node.Op{Code: "call", Args: []any{"f", "s", int64(2)}},
	}, x.Nodes())
}

func TestBuildErrors(t *testing.T) {
	_, _, err := build(t, `(for (cond (op nop)) (cond (op nop)))`)
	assert.ErrorIs(t, err, node.ErrAlreadySet)
	assert.ErrorIs(t, err, node.ErrBuilderMisuse)

	_, _, err = build(t, `(for (cond) (cond (op nop)))`)
	assert.ErrorIs(t, err, node.ErrAlreadySet)

	_, _, err = build(t, `(for (cond (op nop)) (body) (body))`)
	if assert.ErrorIs(t, err, node.ErrAlreadySet) {
		assert.Contains(t, err.Error(), "<text>:1:29")
	}

	for _, tc := range []struct {
		text string
		msg  string
	}{
		{`(break)`, "<text>:1:1: break outside of loop"},
		{`(op frob)`, "unknown opcode: frob"},
		{`(op const)`, "const: want 1 operands, got 0"},
		{`(whatever)`, "unsupported form: whatever"},
		{`(for (step))`, "unsupported clause"},
		{`(goto 1)`, "label name expected"},
		{`x`, "list expected"},
	} {
		_, _, err := build(t, tc.text)
		if assert.Error(t, err, tc.text) {
			assert.Contains(t, err.Error(), tc.msg, tc.text)
		}
	}
}
