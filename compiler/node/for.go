package node

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"

	"github.com/slowlang/lower/compiler/label"
)

type (
	// For is a loop with initialize, condition, update and body clauses.
	//
	// Each clause may be set once. Builder errors are kept
	// and reported by Err, Validate and lowering.
	For struct {
		comment string

		initialize Block
		condition  Block
		update     Block
		body       Block

		begin label.Label
		cont  label.Label
		end   label.Label

		flat    *Block
		lowered bool

		err error

		from loc.PC
	}

	Clause int
)

const (
	ClauseInit Clause = iota
	ClauseCond
	ClauseUpdate
	ClauseBody
)

func NewFor(a *label.Arena, f string, args ...any) *For {
	if len(args) != 0 {
		f = fmt.Sprintf(f, args...)
	}

	return &For{
		comment: f,

		begin: a.New("begin"),
		cont:  a.New("continue"),
		end:   a.New("end"),

		from: loc.Caller(1),
	}
}

func (*For) node() {}

func (f *For) Comment() string { return f.comment }

func (f *For) BeginLabel() label.Label    { return f.begin }
func (f *For) ContinueLabel() label.Label { return f.cont }
func (f *For) EndLabel() label.Label      { return f.end }

func (f *For) InitBlock() *Block   { return &f.initialize }
func (f *For) CondBlock() *Block   { return &f.condition }
func (f *For) UpdateBlock() *Block { return &f.update }
func (f *For) BodyBlock() *Block   { return &f.body }

// Initialize, Condition, Update and Body set a clause and return f for chaining.
// Misuse does not fail here: the first error is kept and reported by Err,
// Validate and Lower. Use Set to fail at the call site.
func (f *For) Initialize(n Node) *For { return f.set(ClauseInit, n) }
func (f *For) Condition(n Node) *For  { return f.set(ClauseCond, n) }
func (f *For) Update(n Node) *For     { return f.set(ClauseUpdate, n) }
func (f *For) Body(n Node) *For       { return f.set(ClauseBody, n) }

// Set appends n to the clause c.
// The clause must be empty and the loop must not be lowered yet.
func (f *For) Set(c Clause, n Node) error {
	b := f.Clause(c)

	if !b.IsEmpty() {
		return errors.Wrap(ErrAlreadySet, "%v", c)
	}

	if f.lowered {
		return errors.Wrap(ErrSealed, "%v", c)
	}

	b.Append(n)

	return nil
}

func (f *For) Clause(c Clause) *Block {
	switch c {
	case ClauseInit:
		return &f.initialize
	case ClauseCond:
		return &f.condition
	case ClauseUpdate:
		return &f.update
	case ClauseBody:
		return &f.body
	default:
		panic(c)
	}
}

// Err returns the first error made while building the loop.
func (f *For) Err() error {
	if f.err == nil {
		return nil
	}

	return errors.Wrap(f.err, "for %v", f.from)
}

// Check reports whether the loop can be lowered.
func (f *For) Check() error {
	if err := f.Err(); err != nil {
		return err
	}

	if f.condition.IsEmpty() {
		return errors.Wrap(ErrMissingCondition, "for %v", f.from)
	}

	return nil
}

// Children returns clauses in the canonical order: initialize, condition, update, body.
func (f *For) Children() []Node {
	return []Node{&f.initialize, &f.condition, &f.update, &f.body}
}

// Flatten returns the loop rewritten into blocks, labels and jumps.
// The result is built once and shared by later calls.
func (f *For) Flatten() (*Block, error) {
	if err := f.Check(); err != nil {
		return nil, err
	}

	if f.flat != nil {
		return f.flat, nil
	}

	b := NewBlock().SetDescription(f.comment)

	b.Append(NewBlock().SetDescription("initialize").Append(&f.initialize))

	b.Place(f.begin).
		Append(NewBlock().SetDescription("condition").Append(&f.condition)).
		IfFalseGoto(f.end)

	b.Append(NewBlock().SetDescription("body").Append(&f.body))

	b.Place(f.cont).
		Append(NewBlock().SetDescription("update").Append(&f.update)).
		Goto(f.begin).
		Place(f.end)

	f.flat = b

	return b, nil
}

func (f *For) seal() { f.lowered = true }

func (f *For) set(c Clause, n Node) *For {
	err := f.Set(c, n)
	if err != nil && f.err == nil {
		f.err = err
	}

	return f
}

func (c Clause) String() string {
	switch c {
	case ClauseInit:
		return "initialize"
	case ClauseCond:
		return "condition"
	case ClauseUpdate:
		return "update"
	case ClauseBody:
		return "body"
	default:
		return fmt.Sprintf("Clause(%d)", int(c))
	}
}
