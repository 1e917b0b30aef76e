package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lower/compiler/asm"
	"github.com/slowlang/lower/compiler/format"
	"github.com/slowlang/lower/compiler/front"
	"github.com/slowlang/lower/compiler/label"
	"github.com/slowlang/lower/compiler/node"
	"github.com/slowlang/lower/compiler/parse"
)

type Options struct {
	// Comments keeps node comments in the output.
	Comments bool

	// MaxStack limits the operand stack depth. Zero means no limit.
	MaxStack int
}

func CompileFile(ctx context.Context, name string, opts Options) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, opts)
}

// Compile lowers the tree described by text into a flat listing.
func Compile(ctx context.Context, name string, text []byte, opts Options) (obj []byte, err error) {
	a := label.NewArena()

	b, err := build(ctx, name, text, a)
	if err != nil {
		return nil, err
	}

	as := asm.New()
	fr := asm.NewFrame(opts.MaxStack)

	err = node.Emit(ctx, as, fr, b)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	p, err := as.Link(fr)
	if err != nil {
		return nil, errors.Wrap(err, "link")
	}

	return format.Listing(nil, p, a, opts.Comments), nil
}

func TreeFile(ctx context.Context, name string, opts Options) ([]byte, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Tree(ctx, name, text, opts)
}

// Tree prints the tree described by text without lowering it.
func Tree(ctx context.Context, name string, text []byte, opts Options) ([]byte, error) {
	a := label.NewArena()

	b, err := build(ctx, name, text, a)
	if err != nil {
		return nil, err
	}

	err = node.Validate(b)
	if err != nil {
		return nil, errors.Wrap(err, "validate")
	}

	p := &format.Printer{Labels: a, Comments: opts.Comments}

	return p.Tree(b), nil
}

func build(ctx context.Context, name string, text []byte, a *label.Arena) (*node.Block, error) {
	st := parse.New()

	st.AddFile(name, text)

	x, err := st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	b, err := front.New(st, a).Build(ctx, x)
	if err != nil {
		return nil, errors.Wrap(err, "build")
	}

	return b, nil
}
