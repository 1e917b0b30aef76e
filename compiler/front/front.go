package front

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lower/compiler/asm"
	"github.com/slowlang/lower/compiler/ast"
	"github.com/slowlang/lower/compiler/label"
	"github.com/slowlang/lower/compiler/node"
	"github.com/slowlang/lower/compiler/parse"
)

type (
	// Front builds node trees from parsed forms.
	Front struct {
		st *parse.State

		Arena *label.Arena

		labels map[string]label.Label
		loops  []*node.For
	}

	handler func(c *Front, ctx context.Context, x *ast.List) (node.Node, error)
)

var forms map[string]handler

func init() {
	forms = map[string]handler{
		"block":    (*Front).compileBlock,
		"op":       (*Front).compileOp,
		"for":      (*Front).compileFor,
		"break":    (*Front).compileBranch,
		"continue": (*Front).compileBranch,
		"label":    (*Front).compileLabel,
		"goto":     (*Front).compileJump,
		"if-true":  (*Front).compileJump,
		"if-false": (*Front).compileJump,
	}
}

// New returns a Front. st is used for error positions and may be nil.
func New(st *parse.State, a *label.Arena) *Front {
	if a == nil {
		a = label.NewArena()
	}

	return &Front{
		st:     st,
		Arena:  a,
		labels: make(map[string]label.Label),
	}
}

// Build compiles top level forms into one Block.
func (c *Front) Build(ctx context.Context, x []ast.Node) (b *node.Block, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: build", "forms", len(x))
	defer tr.Finish("err", &err)

	b = node.NewBlock()

	for _, x := range x {
		n, err := c.compile(ctx, x)
		if err != nil {
			return nil, err
		}

		b.Append(n)
	}

	tr.V("front_labels").Printw("labels", "named", len(c.labels), "total", c.Arena.Len())

	return b, nil
}

// Label returns the label called name, creating it on first use.
func (c *Front) Label(name string) label.Label {
	l, ok := c.labels[name]
	if !ok {
		l = c.Arena.New(name)
		c.labels[name] = l
	}

	return l
}

func (c *Front) compile(ctx context.Context, x ast.Node) (node.Node, error) {
	l, ok := x.(*ast.List)
	if !ok {
		return nil, c.errorf(x, "list expected, got %T", x)
	}

	head, ok := l.Head()
	if !ok {
		return nil, c.errorf(x, "form name expected")
	}

	h, ok := forms[head]
	if !ok {
		return nil, c.errorf(x, "unsupported form: %v", head)
	}

	return h(c, ctx, l)
}

func (c *Front) compileBlock(ctx context.Context, x *ast.List) (node.Node, error) {
	b := node.NewBlock()

	items := x.Items[1:]

	if len(items) != 0 {
		if s, ok := items[0].(ast.String); ok {
			b.SetDescription(s.Value)
			items = items[1:]
		}
	}

	err := c.compileItems(ctx, b, items)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (c *Front) compileItems(ctx context.Context, b *node.Block, items []ast.Node) error {
	for _, x := range items {
		n, err := c.compile(ctx, x)
		if err != nil {
			return err
		}

		b.Append(n)
	}

	return nil
}

func (c *Front) compileOp(ctx context.Context, x *ast.List) (node.Node, error) {
	if len(x.Items) < 2 {
		return nil, c.errorf(x, "opcode expected")
	}

	code, ok := x.Items[1].(ast.Ident)
	if !ok {
		return nil, c.errorf(x.Items[1], "opcode expected")
	}

	var args []any

	for _, a := range x.Items[2:] {
		switch a := a.(type) {
		case ast.Int:
			args = append(args, a.Value)
		case ast.Ident:
			args = append(args, a.Name)
		case ast.String:
			args = append(args, a.Value)
		default:
			return nil, c.errorf(a, "operand expected")
		}
	}

	e, err := asm.Lookup(code.Name, len(args))
	if err != nil {
		return nil, c.wrap(err, x)
	}

	return node.Op{
		Code: code.Name,
		Args: args,
		Pop:  e.Pop,
		Push: e.Push,
	}, nil
}

func (c *Front) compileFor(ctx context.Context, x *ast.List) (_ node.Node, err error) {
	items := x.Items[1:]

	var comment string

	if len(items) != 0 {
		if s, ok := items[0].(ast.String); ok {
			comment = s.Value
			items = items[1:]
		}
	}

	f := node.NewFor(c.Arena, comment)

	c.loops = append(c.loops, f)
	defer func() {
		c.loops = c.loops[:len(c.loops)-1]
	}()

	var seen [4]bool

	for _, it := range items {
		cl, ok := it.(*ast.List)
		if !ok {
			return nil, c.errorf(it, "clause expected")
		}

		head, _ := cl.Head()

		var clause node.Clause

		switch head {
		case "init":
			clause = node.ClauseInit
		case "cond":
			clause = node.ClauseCond
		case "update":
			clause = node.ClauseUpdate
		case "body":
			clause = node.ClauseBody
		default:
			return nil, c.errorf(it, "unsupported clause: %q", head)
		}

		if seen[clause] {
			return nil, c.wrap(errors.Wrap(node.ErrAlreadySet, "%v", clause), it)
		}

		seen[clause] = true

		b := node.NewBlock()

		err = c.compileItems(ctx, b, cl.Items[1:])
		if err != nil {
			return nil, errors.Wrap(err, "%v", clause)
		}

		var n node.Node = b

		switch b.Len() {
		case 0:
			n = nil
		case 1:
			n = b.Nodes()[0]
		}

		err = f.Set(clause, n)
		if err != nil {
			return nil, c.wrap(err, it)
		}
	}

	tlog.SpanFromContext(ctx).V("front_for").Printw("for", "comment", comment, "continue", f.ContinueLabel(), "end", f.EndLabel(), "depth", len(c.loops))

	return f, nil
}

func (c *Front) compileBranch(ctx context.Context, x *ast.List) (node.Node, error) {
	if len(c.loops) == 0 {
		return nil, c.errorf(x, "%v outside of loop", x.Items[0].(ast.Ident).Name)
	}

	if len(x.Items) != 1 {
		return nil, c.errorf(x, "unexpected arguments")
	}

	f := c.loops[len(c.loops)-1]

	if head, _ := x.Head(); head == "continue" {
		return node.Jump{Label: f.ContinueLabel(), Desc: "continue"}, nil
	}

	return node.Jump{Label: f.EndLabel(), Desc: "break"}, nil
}

func (c *Front) compileLabel(ctx context.Context, x *ast.List) (node.Node, error) {
	name, err := c.labelName(x)
	if err != nil {
		return nil, err
	}

	return node.Place{Label: c.Label(name), Desc: name}, nil
}

func (c *Front) compileJump(ctx context.Context, x *ast.List) (node.Node, error) {
	name, err := c.labelName(x)
	if err != nil {
		return nil, err
	}

	j := node.Jump{Label: c.Label(name)}

	switch head, _ := x.Head(); head {
	case "if-true":
		j.Cond = node.IfTrue
	case "if-false":
		j.Cond = node.IfFalse
	}

	return j, nil
}

func (c *Front) labelName(x *ast.List) (string, error) {
	if len(x.Items) != 2 {
		return "", c.errorf(x, "label name expected")
	}

	id, ok := x.Items[1].(ast.Ident)
	if !ok {
		return "", c.errorf(x.Items[1], "label name expected")
	}

	return id.Name, nil
}

func (c *Front) errorf(x ast.Node, f string, args ...any) error {
	return c.wrap(errors.New(f, args...), x)
}

func (c *Front) wrap(err error, x ast.Node) error {
	if c.st == nil {
		return errors.Wrap(err, "offset %d", x.Span().Pos)
	}

	return errors.Wrap(err, "%v", c.st.Position(x.Span().Pos))
}
