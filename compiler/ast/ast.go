package ast

type (
	Node interface {
		Span() Base
	}

	Base struct {
		Pos int
		End int
	}

	// List is a parenthesized sequence.
	List struct {
		Base `tlog:",embed"`

		Items []Node
	}

	Ident struct {
		Base `tlog:",embed"`

		Name string
	}

	Int struct {
		Base `tlog:",embed"`

		Value int64
	}

	String struct {
		Base `tlog:",embed"`

		Value string
	}
)

func (b Base) Span() Base { return b }

// Head returns the leading identifier of the list.
func (l *List) Head() (string, bool) {
	if len(l.Items) == 0 {
		return "", false
	}

	id, ok := l.Items[0].(Ident)

	return id.Name, ok
}
