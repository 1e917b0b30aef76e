package asm

import "tlog.app/go/errors"

type Effect struct {
	Pop, Push int

	// Args is the number of immediate operands, -1 for any.
	Args int
}

var Opcodes = map[string]Effect{
	"nop":   {},
	"const": {Push: 1, Args: 1},
	"load":  {Push: 1, Args: 1},
	"store": {Pop: 1, Args: 1},
	"inc":   {Args: 2},
	"dup":   {Pop: 1, Push: 2},
	"pop":   {Pop: 1},
	"swap":  {Pop: 2, Push: 2},

	"add": {Pop: 2, Push: 1},
	"sub": {Pop: 2, Push: 1},
	"mul": {Pop: 2, Push: 1},
	"div": {Pop: 2, Push: 1},
	"mod": {Pop: 2, Push: 1},
	"neg": {Pop: 1, Push: 1},
	"not": {Pop: 1, Push: 1},

	"eq": {Pop: 2, Push: 1},
	"ne": {Pop: 2, Push: 1},
	"lt": {Pop: 2, Push: 1},
	"le": {Pop: 2, Push: 1},
	"gt": {Pop: 2, Push: 1},
	"ge": {Pop: 2, Push: 1},

	"call":   {Args: -1},
	"return": {},
}

// Lookup returns the stack effect of the opcode called with nargs operands.
func Lookup(code string, nargs int) (Effect, error) {
	e, ok := Opcodes[code]
	if !ok {
		return Effect{}, errors.New("unknown opcode: %v", code)
	}

	if e.Args >= 0 && e.Args != nargs {
		return Effect{}, errors.New("%v: want %d operands, got %d", code, e.Args, nargs)
	}

	return e, nil
}
