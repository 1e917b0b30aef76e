package node

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lower/compiler/label"
)

type (
	// Gen is the generation context. It belongs to the Sink,
	// lowering only passes it through.
	Gen any

	// Sink receives the flat instruction stream.
	Sink interface {
		Op(g Gen, x Op) error
		Bind(g Gen, l label.Label) error
		Jump(g Gen, c Cond, l label.Label) error
	}

	// Lowerer flattens trees into a Sink.
	// Labels are bound at most once per Lowerer.
	Lowerer struct {
		sink Sink

		labels *label.Table
		pos    int

		err error
	}
)

// Emit lowers n into s and checks all referenced labels are bound.
func Emit(ctx context.Context, s Sink, g Gen, n Node) error {
	l := NewLowerer(s)

	err := l.Lower(ctx, g, n)
	if err != nil {
		return err
	}

	return l.Finish()
}

func NewLowerer(s Sink) *Lowerer {
	return &Lowerer{
		sink:   s,
		labels: label.NewTable(),
	}
}

// Lower validates n and emits it.
// Nothing is emitted if validation fails.
// After the first error all calls return it.
func (l *Lowerer) Lower(ctx context.Context, g Gen, n Node) (err error) {
	if l.err != nil {
		return l.err
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower", "comment", n.Comment())
	defer tr.Finish("pos", &l.pos, "err", &err)

	err = Validate(n)
	if err != nil {
		return errors.Wrap(err, "validate")
	}

	err = l.emit(ctx, g, n)
	if err != nil {
		l.err = err
		return err
	}

	if tr.If("lower_labels") {
		tr.Printw("labels", "bindings", l.labels.Bindings())
	}

	return nil
}

// Finish reports labels which were jumped to but never bound.
func (l *Lowerer) Finish() error {
	if l.err != nil {
		return l.err
	}

	return l.labels.Check()
}

// Pos is the number of operations and jumps emitted so far.
func (l *Lowerer) Pos() int { return l.pos }

func (l *Lowerer) Labels() *label.Table { return l.labels }

func (l *Lowerer) emit(ctx context.Context, g Gen, n Node) (err error) {
	switch x := n.(type) {
	case Op:
		err = l.sink.Op(g, x)
		if err != nil {
			return errors.Wrap(err, "op %v", x.Code)
		}

		l.pos++
	case Place:
		err = l.labels.Bind(x.Label, l.pos)
		if err != nil {
			return err
		}

		tlog.V("lower_label").Printw("bind label", "label", x.Label, "pos", l.pos)

		err = l.sink.Bind(g, x.Label)
		if err != nil {
			return errors.Wrap(err, "bind %v", x.Label)
		}
	case Jump:
		err = l.labels.Ref(x.Label, l.pos)
		if err != nil {
			return err
		}

		err = l.sink.Jump(g, x.Cond, x.Label)
		if err != nil {
			return errors.Wrap(err, "jump %v", x.Label)
		}

		l.pos++
	case *Block:
		for i, c := range x.nodes {
			err = l.emit(ctx, g, c)
			if err != nil {
				return wrapBlock(err, x, i)
			}
		}
	case *For:
		b, err := x.Flatten()
		if err != nil {
			return err
		}

		x.seal()

		if tr := tlog.SpanFromContext(ctx); tr.If("lower_for") {
			tr.Printw("lower for", "comment", x.comment, "begin", x.begin, "continue", x.cont, "end", x.end, "pos", l.pos)
		}

		err = l.emit(ctx, g, b)
		if err != nil {
			return errors.Wrap(err, "for")
		}
	default:
		panic(n)
	}

	return nil
}

func wrapBlock(err error, b *Block, i int) error {
	if b.desc != "" {
		return errors.Wrap(err, "%v", b.desc)
	}

	return errors.Wrap(err, "%d", i)
}
