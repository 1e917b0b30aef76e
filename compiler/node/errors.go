package node

import "tlog.app/go/errors"

var (
	ErrBuilderMisuse = errors.New("builder misuse")

	ErrAlreadySet       = misuse("clause already set")
	ErrMissingCondition = misuse("condition is not set")
	ErrSealed           = misuse("node is already lowered")
)

type misuse string

func (e misuse) Error() string { return string(e) }

func (e misuse) Is(target error) bool { return target == ErrBuilderMisuse }
