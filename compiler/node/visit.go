package node

import (
	"tlog.app/go/errors"

	"github.com/slowlang/lower/compiler/label"
	"github.com/slowlang/lower/compiler/set"
)

type (
	// Visitor computes a result per node kind.
	// It is used for analysis and rewriting, never for emission.
	Visitor[R any] interface {
		VisitOp(parent Node, x Op) R
		VisitPlace(parent Node, x Place) R
		VisitJump(parent Node, x Jump) R
		VisitBlock(parent Node, x *Block) R
		VisitFor(parent Node, x *For) R
	}

	walker struct {
		f func(parent, n Node) bool
	}

	validator struct {
		placed set.Bits[label.Label]
	}
)

// Accept dispatches n to the Visitor method for its kind.
func Accept[R any](parent, n Node, v Visitor[R]) R {
	switch x := n.(type) {
	case Op:
		return v.VisitOp(parent, x)
	case Place:
		return v.VisitPlace(parent, x)
	case Jump:
		return v.VisitJump(parent, x)
	case *Block:
		return v.VisitBlock(parent, x)
	case *For:
		return v.VisitFor(parent, x)
	default:
		panic(n)
	}
}

// Children returns the structural children of n.
func Children(n Node) []Node {
	switch x := n.(type) {
	case *Block:
		return x.nodes
	case *For:
		return x.Children()
	default:
		return nil
	}
}

// Walk calls f for n and its descendants in pre-order.
// Subtrees are skipped if f returns false.
func Walk(n Node, f func(parent, n Node) bool) {
	Accept[struct{}](nil, n, walker{f: f})
}

// Validate checks the tree for builder misuse and duplicate label placements
// without emitting anything.
func Validate(n Node) error {
	v := &validator{placed: set.MakeBits[label.Label]()}

	return Accept[error](nil, n, v)
}

func (w walker) VisitOp(p Node, x Op) struct{}       { return w.leaf(p, x) }
func (w walker) VisitPlace(p Node, x Place) struct{} { return w.leaf(p, x) }
func (w walker) VisitJump(p Node, x Jump) struct{}   { return w.leaf(p, x) }

func (w walker) VisitBlock(p Node, x *Block) struct{} {
	return w.children(p, x)
}

func (w walker) VisitFor(p Node, x *For) struct{} {
	return w.children(p, x)
}

func (w walker) leaf(p, x Node) struct{} {
	w.f(p, x)

	return struct{}{}
}

func (w walker) children(p, x Node) struct{} {
	if !w.f(p, x) {
		return struct{}{}
	}

	for _, c := range Children(x) {
		Accept[struct{}](x, c, w)
	}

	return struct{}{}
}

func (v *validator) VisitOp(p Node, x Op) error     { return nil }
func (v *validator) VisitJump(p Node, x Jump) error { return nil }

func (v *validator) VisitPlace(p Node, x Place) error {
	return v.place(x.Label)
}

func (v *validator) VisitBlock(p Node, x *Block) error {
	for i, c := range x.nodes {
		err := Accept[error](x, c, v)
		if err != nil {
			if x.desc != "" {
				return errors.Wrap(err, "%v: %d", x.desc, i)
			}

			return errors.Wrap(err, "%d", i)
		}
	}

	return nil
}

func (v *validator) VisitFor(p Node, x *For) error {
	err := x.Check()
	if err != nil {
		return err
	}

	for _, l := range []label.Label{x.begin, x.cont, x.end} {
		err = v.place(l)
		if err != nil {
			return errors.Wrap(err, "for %v", x.from)
		}
	}

	for i, c := range x.Children() {
		err = Accept[error](x, c, v)
		if err != nil {
			return errors.Wrap(err, "%v", Clause(i))
		}
	}

	return nil
}

func (v *validator) place(l label.Label) error {
	if l < 0 {
		return errors.New("place invalid label")
	}

	if v.placed.IsSet(l) {
		return errors.Wrap(label.ErrDuplicateBinding, "%v placed twice", l)
	}

	v.placed.Set(l)

	return nil
}
