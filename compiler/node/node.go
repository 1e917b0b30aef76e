package node

import (
	"fmt"

	"github.com/slowlang/lower/compiler/label"
)

type (
	// Node is a unit of the control-flow tree.
	// The set of implementations is closed: Op, Place, Jump, *Block, *For.
	Node interface {
		Comment() string

		node()
	}

	// Op is a primitive operation.
	Op struct {
		Code string
		Args []any

		// stack effect
		Pop, Push int

		Desc string
	}

	// Place binds Label at the current stream position.
	Place struct {
		Label label.Label
		Desc  string
	}

	// Jump transfers control to Label if Cond holds.
	Jump struct {
		Cond  Cond
		Label label.Label
		Desc  string
	}

	// Cond tells whether a Jump is taken always or by the popped value.
	Cond string

	// Block is an ordered composite of nodes.
	// Append is the only way to change it.
	Block struct {
		desc  string
		nodes []Node
	}
)

// Jump conditions.
const (
	Always  Cond = ""
	IfTrue  Cond = "true"
	IfFalse Cond = "false"
)

func (x Op) Comment() string    { return x.Desc }
func (x Place) Comment() string { return x.Desc }
func (x Jump) Comment() string  { return x.Desc }

func (x *Block) Comment() string { return x.desc }

func (Op) node()     {}
func (Place) node()  {}
func (Jump) node()   {}
func (*Block) node() {}

func NewBlock() *Block {
	return &Block{}
}

func (b *Block) SetDescription(f string, args ...any) *Block {
	if len(args) != 0 {
		f = fmt.Sprintf(f, args...)
	}

	b.desc = f

	return b
}

func (b *Block) Description() string { return b.desc }

func (b *Block) Append(n Node) *Block {
	if n == nil {
		return b
	}

	if x, ok := n.(*Block); ok && x == b {
		panic("block appended to itself")
	}

	b.nodes = append(b.nodes, n)

	return b
}

func (b *Block) IsEmpty() bool { return len(b.nodes) == 0 }

func (b *Block) Len() int { return len(b.nodes) }

// Nodes returns children in emission order. The slice must not be modified.
func (b *Block) Nodes() []Node { return b.nodes }

func (b *Block) Op(code string, args ...any) *Block {
	return b.Append(Op{Code: code, Args: args})
}

func (b *Block) Place(l label.Label) *Block {
	return b.Append(Place{Label: l})
}

func (b *Block) Goto(l label.Label) *Block {
	return b.Append(Jump{Cond: Always, Label: l})
}

func (b *Block) IfTrueGoto(l label.Label) *Block {
	return b.Append(Jump{Cond: IfTrue, Label: l})
}

func (b *Block) IfFalseGoto(l label.Label) *Block {
	return b.Append(Jump{Cond: IfFalse, Label: l})
}

func (x Op) String() string {
	s := x.Code

	for _, a := range x.Args {
		s += " " + fmt.Sprint(a)
	}

	return s
}
