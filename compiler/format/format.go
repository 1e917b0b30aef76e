package format

import (
	"github.com/nikandfor/hacked/hfmt"

	"github.com/slowlang/lower/compiler/asm"
	"github.com/slowlang/lower/compiler/label"
	"github.com/slowlang/lower/compiler/node"
)

type (
	// Printer dumps a node tree in structural order.
	Printer struct {
		Labels *label.Arena

		// Comments prints node comments after the node.
		Comments bool

		b []byte
		d int
	}
)

// Tree appends the structural dump of n to b.
func Tree(b []byte, n node.Node, a *label.Arena) []byte {
	p := &Printer{Labels: a, Comments: true, b: b}

	return p.Tree(n)
}

func (p *Printer) Tree(n node.Node) []byte {
	node.Accept[struct{}](nil, n, p)

	b := p.b
	p.b = nil

	return b
}

func (p *Printer) VisitOp(par node.Node, x node.Op) struct{} {
	p.b = app(p.b, p.d, "%s", x.String())
	p.comment(x.Desc)

	return struct{}{}
}

func (p *Printer) VisitPlace(par node.Node, x node.Place) struct{} {
	p.b = app(p.b, p.d, "label %v", p.label(x.Label))
	p.comment(x.Desc)

	return struct{}{}
}

func (p *Printer) VisitJump(par node.Node, x node.Jump) struct{} {
	switch x.Cond {
	case node.Always:
		p.b = app(p.b, p.d, "goto %v", p.label(x.Label))
	default:
		p.b = app(p.b, p.d, "if-%v %v", x.Cond, p.label(x.Label))
	}

	p.comment(x.Desc)

	return struct{}{}
}

func (p *Printer) VisitBlock(par node.Node, x *node.Block) struct{} {
	if _, ok := par.(*node.For); ok {
		// clause blocks are headed by the clause name
		p.children(x, x.Nodes())
		return struct{}{}
	}

	p.b = app(p.b, p.d, "block")
	p.comment(x.Description())

	p.children(x, x.Nodes())

	return struct{}{}
}

func (p *Printer) VisitFor(par node.Node, x *node.For) struct{} {
	p.b = app(p.b, p.d, "for")
	p.comment(x.Comment())

	p.d++

	for i, c := range x.Children() {
		p.b = app(p.b, p.d, "%v", node.Clause(i))

		if c.(*node.Block).IsEmpty() {
			p.b = append(p.b, " {}\n"...)
			continue
		}

		p.b = append(p.b, '\n')

		node.Accept[struct{}](x, c, p)
	}

	p.d--

	return struct{}{}
}

func (p *Printer) children(par node.Node, ns []node.Node) {
	p.d++

	for _, c := range ns {
		node.Accept[struct{}](par, c, p)
	}

	p.d--
}

func (p *Printer) comment(c string) {
	if p.Comments && c != "" {
		p.b = hfmt.Appendf(p.b, "\t// %s", c)
	}

	p.b = append(p.b, '\n')
}

func (p *Printer) label(l label.Label) string {
	return labelName(p.Labels, l)
}

// Listing appends the flat program to b.
func Listing(b []byte, p *asm.Program, a *label.Arena, comments bool) []byte {
	b = hfmt.Appendf(b, "// max stack %d\n", p.MaxStack)

	pc := 0

	for _, x := range p.Code {
		switch x := x.(type) {
		case asm.Label:
			b = hfmt.Appendf(b, "%v:\n", labelName(a, x.Label))
			continue
		case asm.Op:
			b = hfmt.Appendf(b, "%4d\t%s", pc, node.Op{Code: x.Code, Args: x.Args}.String())

			if comments && x.Comment != "" {
				b = hfmt.Appendf(b, "\t// %s", x.Comment)
			}
		case asm.B:
			b = hfmt.Appendf(b, "%4d\tgoto %v\t// -> %d", pc, labelName(a, x.Label), x.PC)
		case asm.BCond:
			b = hfmt.Appendf(b, "%4d\tif-%v %v\t// -> %d", pc, x.Cond, labelName(a, x.Label), x.PC)
		}

		b = append(b, '\n')
		pc++
	}

	return b
}

func labelName(a *label.Arena, l label.Label) string {
	if t := a.Tag(l); t != "" {
		return l.String() + "_" + t
	}

	return l.String()
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	for d > len(tabs) {
		b = append(b, tabs...)
		d -= len(tabs)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
