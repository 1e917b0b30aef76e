package label

import (
	"fmt"

	"nikand.dev/go/heap"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/lower/compiler/set"
)

type (
	// Label is a jump target handle.
	// It is only an index into the Arena which created it.
	Label int

	// Arena hands out Labels and keeps their diagnostic tags.
	Arena struct {
		tags []string
	}

	// Table binds Labels to stream positions during one lowering.
	Table struct {
		pos []int

		bound set.Bits[Label]
		refs  set.Bits[Label]

		// first reference site per label, for diagnostics
		site []int
	}

	Binding struct {
		Label Label
		Pos   int
	}
)

const None Label = -1

var (
	ErrLabelMisuse = errors.New("label misuse")

	ErrDuplicateBinding = misuse("duplicate binding")
	ErrUnresolved       = misuse("unresolved label")
)

type misuse string

func (e misuse) Error() string { return string(e) }

func (e misuse) Is(target error) bool { return target == ErrLabelMisuse }

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) New(tag string) Label {
	l := Label(len(a.tags))
	a.tags = append(a.tags, tag)

	return l
}

func (a *Arena) Tag(l Label) string {
	if a == nil || l < 0 || int(l) >= len(a.tags) {
		return ""
	}

	return a.tags[l]
}

func (a *Arena) Len() int {
	if a == nil {
		return 0
	}

	return len(a.tags)
}

func (l Label) String() string {
	if l == None {
		return "L?"
	}

	return fmt.Sprintf("L%d", int(l))
}

func NewTable() *Table {
	return &Table{
		bound: set.MakeBits[Label](),
		refs:  set.MakeBits[Label](),
	}
}

// Bind places l at pos. A Label is bound at most once.
func (t *Table) Bind(l Label, pos int) error {
	if l < 0 {
		return errors.New("bind invalid label: %v", l)
	}

	if t.bound.IsSet(l) {
		return errors.Wrap(ErrDuplicateBinding, "%v already at %d", l, t.pos[l])
	}

	t.pos = grow(t.pos, l)
	t.pos[l] = pos
	t.bound.Set(l)

	return nil
}

// Ref records a jump at site targeting l. l may be bound before or after.
func (t *Table) Ref(l Label, site int) error {
	if l < 0 {
		return errors.New("reference invalid label: %v", l)
	}

	if !t.refs.IsSet(l) {
		t.site = grow(t.site, l)
		t.site[l] = site
	}

	t.refs.Set(l)

	return nil
}

func (t *Table) IsBound(l Label) bool {
	return t.bound.IsSet(l)
}

// Pos returns the position l is bound to.
func (t *Table) Pos(l Label) (int, bool) {
	if !t.bound.IsSet(l) {
		return -1, false
	}

	return t.pos[l], true
}

// Check reports the lowest referenced label which was never bound.
func (t *Table) Check() error {
	missing := t.refs.Copy()
	missing.Substract(t.bound)

	tlog.V("label_check").Printw("check labels", "refs", t.refs, "bound", t.bound, "missing", missing)

	if l := missing.First(); l != None {
		return errors.Wrap(ErrUnresolved, "%v referenced at %d (%d unresolved)", l, t.site[l], missing.Size())
	}

	return nil
}

// Bindings returns all bindings ordered by position.
func (t *Table) Bindings() []Binding {
	h := heap.Heap[Binding]{Less: bindingLess}

	t.bound.Range(func(l Label) bool {
		h.Push(Binding{Label: l, Pos: t.pos[l]})
		return true
	})

	r := make([]Binding, 0, h.Len())

	for h.Len() != 0 {
		r = append(r, h.Pop())
	}

	return r
}

func bindingLess(d []Binding, i, j int) bool {
	if d[i].Pos != d[j].Pos {
		return d[i].Pos < d[j].Pos
	}

	return d[i].Label < d[j].Label
}

func (b Binding) TlogAppend(buf []byte) []byte {
	var e tlwire.Encoder

	buf = e.AppendMap(buf, 2)
	buf = e.AppendKeyInt64(buf, "label", int64(b.Label))
	buf = e.AppendKeyInt64(buf, "pos", int64(b.Pos))

	return buf
}

func grow(s []int, l Label) []int {
	for int(l) >= len(s) {
		s = append(s, -1)
	}

	return s
}
