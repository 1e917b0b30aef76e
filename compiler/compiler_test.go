package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/lower/compiler/asm"
	"github.com/slowlang/lower/compiler/format"
	"github.com/slowlang/lower/compiler/label"
	"github.com/slowlang/lower/compiler/node"
)

const countLoop = `; count to three skipping one
(op const 0)
(op store i)
(for "count"
	(cond (op load i) (op const 3) (op lt))
	(update (op inc i 1))
	(body
		(op load i)
		(op const 1)
		(op eq)
		(if-true skip)
		(op call print i)
		(label skip)
		(continue)))
`

func TestCompile(t *testing.T) {
	ctx := context.Background()

	res, err := Compile(ctx, "", []byte(countLoop), Options{})
	require.NoError(t, err)

	assert.Equal(t, `// max stack 2
   0	const 0
   1	store i
L0_begin:
   2	load i
   3	const 3
   4	lt
   5	if-false L2_end	// -> 14
   6	load i
   7	const 1
   8	eq
   9	if-true L3_skip	// -> 11
  10	call print i
L3_skip:
  11	goto L1_continue	// -> 12
L1_continue:
  12	inc i 1
  13	goto L0_begin	// -> 2
L2_end:
`, string(res))
}

func TestCompileMatchesBuilder(t *testing.T) {
	ctx := context.Background()

	a := label.NewArena()

	f := node.NewFor(a, "count")
	skip := a.New("skip")

	op := func(code string, pop, push int, args ...any) node.Op {
		return node.Op{Code: code, Args: args, Pop: pop, Push: push}
	}

	f.Condition(node.NewBlock().
		Append(op("load", 0, 1, "i")).
		Append(op("const", 0, 1, int64(3))).
		Append(op("lt", 2, 1)))

	f.Update(op("inc", 0, 0, "i", int64(1)))

	f.Body(node.NewBlock().
		Append(op("load", 0, 1, "i")).
		Append(op("const", 0, 1, int64(1))).
		Append(op("eq", 2, 1)).
		IfTrueGoto(skip).
		Append(op("call", 0, 0, "print", "i")).
		Place(skip).
		Goto(f.ContinueLabel()))

	b := node.NewBlock().
		Append(op("const", 0, 1, int64(0))).
		Append(op("store", 1, 0, "i")).
		Append(f)

	as := asm.New()
	fr := asm.NewFrame(0)

	err := node.Emit(ctx, as, fr, b)
	require.NoError(t, err)

	p, err := as.Link(fr)
	require.NoError(t, err)

	res, err := Compile(ctx, "", []byte(countLoop), Options{})
	require.NoError(t, err)

	assert.Equal(t, string(format.Listing(nil, p, a, false)), string(res))
}

func TestTree(t *testing.T) {
	ctx := context.Background()

	res, err := Tree(ctx, "", []byte(`(for "c" (cond (op load i)) (body (break)))`), Options{Comments: true})
	require.NoError(t, err)

	assert.Equal(t, `block
	for	// c
		initialize {}
		condition
			load i
		update {}
		body
			goto L2_end	// break
`, string(res))
}

func TestCompileErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Compile(ctx, "", []byte(`(goto nowhere)`), Options{})
	assert.ErrorIs(t, err, label.ErrUnresolved)

	_, err = Compile(ctx, "", []byte(`(op const 1) (op add)`), Options{})
	assert.ErrorIs(t, err, asm.ErrStackUnderflow)

	_, err = Compile(ctx, "", []byte(`(op const 1) (op const 2)`), Options{MaxStack: 1})
	assert.ErrorIs(t, err, asm.ErrStackOverflow)

	_, err = Compile(ctx, "x.lower", []byte("(block\n\t(break))"), Options{})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "x.lower:2:2")
		assert.Contains(t, err.Error(), "break outside of loop")
	}

	_, err = Compile(ctx, "", []byte(`(for (body (op nop)))`), Options{})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "condition")
	}
}

func TestTreeDuplicateLabel(t *testing.T) {
	_, err := Tree(context.Background(), "", []byte(`(label a) (label a)`), Options{})
	assert.ErrorIs(t, err, label.ErrDuplicateBinding)
}
