package asm

import (
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lower/compiler/label"
	"github.com/slowlang/lower/compiler/node"
)

type (
	Instr any

	Op struct {
		Code string
		Args []any

		Comment string
	}

	// Label marks the position of a label. It takes no pc.
	Label struct {
		Label label.Label
	}

	B struct {
		Label label.Label
		PC    int
	}

	BCond struct {
		Cond  node.Cond
		Label label.Label
		PC    int
	}

	// Frame is the generation context the Assembler accounts stack depth in.
	Frame struct {
		Depth    int
		MaxDepth int

		// Limit is the max allowed depth. Zero means no limit.
		Limit int

		// depth expected at each label by the jumps seen so far
		want map[label.Label]int

		unreachable bool
	}

	// Assembler is a node.Sink recording the stream for Link.
	Assembler struct {
		Code []Instr

		labels map[label.Label]int // label -> pc
		pc     int
	}

	Program struct {
		Code []Instr

		Labels   map[label.Label]int
		MaxStack int
	}
)

var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackOverflow  = errors.New("stack limit exceeded")
	ErrDepthMismatch  = errors.New("stack depth mismatch")
	ErrBadContext     = errors.New("generation context is not *asm.Frame")
)

func New() *Assembler {
	return &Assembler{
		labels: make(map[label.Label]int),
	}
}

func NewFrame(limit int) *Frame {
	return &Frame{
		Limit: limit,
		want:  make(map[label.Label]int),
	}
}

func (a *Assembler) Op(g node.Gen, x node.Op) error {
	fr, err := frame(g)
	if err != nil {
		return err
	}

	err = fr.apply(x.Pop, x.Push)
	if err != nil {
		return errors.Wrap(err, "%v", x.Code)
	}

	a.Code = append(a.Code, Op{Code: x.Code, Args: x.Args, Comment: x.Desc})
	a.pc++

	return nil
}

func (a *Assembler) Bind(g node.Gen, l label.Label) error {
	fr, err := frame(g)
	if err != nil {
		return err
	}

	if pc, ok := a.labels[l]; ok {
		return errors.Wrap(label.ErrDuplicateBinding, "%v already at pc %d", l, pc)
	}

	want, ok := fr.want[l]

	switch {
	case fr.unreachable && ok:
		fr.Depth = want
	case fr.unreachable:
		// only backward jumps can reach it, they will check the depth
	case ok && want != fr.Depth:
		return errors.Wrap(ErrDepthMismatch, "%v: jumps have %d, fallthrough has %d", l, want, fr.Depth)
	}

	fr.want[l] = fr.Depth
	fr.unreachable = false

	a.labels[l] = a.pc
	a.Code = append(a.Code, Label{Label: l})

	return nil
}

func (a *Assembler) Jump(g node.Gen, c node.Cond, l label.Label) error {
	fr, err := frame(g)
	if err != nil {
		return err
	}

	switch c {
	case node.Always:
		a.Code = append(a.Code, B{Label: l, PC: -1})
	case node.IfTrue, node.IfFalse:
		err = fr.apply(1, 0)
		if err != nil {
			return errors.Wrap(err, "branch %v", c)
		}

		a.Code = append(a.Code, BCond{Cond: c, Label: l, PC: -1})
	default:
		return errors.New("unsupported condition: %q", c)
	}

	if want, ok := fr.want[l]; ok && want != fr.Depth && !fr.unreachable {
		return errors.Wrap(ErrDepthMismatch, "jump to %v: label has %d, jump has %d", l, want, fr.Depth)
	}

	if !fr.unreachable {
		fr.want[l] = fr.Depth
	}

	if c == node.Always {
		fr.unreachable = true
	}

	a.pc++

	return nil
}

// Link resolves jump targets to pcs.
func (a *Assembler) Link(fr *Frame) (p *Program, err error) {
	code := make([]Instr, len(a.Code))

	for i, x := range a.Code {
		switch x := x.(type) {
		case B:
			x.PC, err = a.target(x.Label)
			if err != nil {
				return nil, err
			}

			code[i] = x
		case BCond:
			x.PC, err = a.target(x.Label)
			if err != nil {
				return nil, err
			}

			code[i] = x
		default:
			code[i] = x
		}
	}

	p = &Program{
		Code:   code,
		Labels: make(map[label.Label]int, len(a.labels)),
	}

	for l, pc := range a.labels {
		p.Labels[l] = pc
	}

	if fr != nil {
		p.MaxStack = fr.MaxDepth
	}

	tlog.V("asm_link").Printw("linked", "instrs", len(code), "pcs", a.pc, "labels", len(a.labels), "max_stack", p.MaxStack)

	return p, nil
}

// PC is the number of pc-taking instructions recorded.
func (a *Assembler) PC() int { return a.pc }

func (a *Assembler) target(l label.Label) (int, error) {
	pc, ok := a.labels[l]
	if !ok {
		return -1, errors.Wrap(label.ErrUnresolved, "%v", l)
	}

	return pc, nil
}

func (fr *Frame) apply(pop, push int) error {
	if fr.Depth < pop {
		return errors.Wrap(ErrStackUnderflow, "depth %d, pop %d", fr.Depth, pop)
	}

	fr.Depth += push - pop

	if fr.Limit != 0 && fr.Depth > fr.Limit {
		return errors.Wrap(ErrStackOverflow, "depth %d, limit %d", fr.Depth, fr.Limit)
	}

	if fr.Depth > fr.MaxDepth {
		fr.MaxDepth = fr.Depth
	}

	return nil
}

func frame(g node.Gen) (*Frame, error) {
	fr, ok := g.(*Frame)
	if !ok || fr == nil {
		return nil, ErrBadContext
	}

	if fr.want == nil {
		fr.want = make(map[label.Label]int)
	}

	return fr, nil
}
