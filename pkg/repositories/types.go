package repositories

// ErrNotFound indicates an owner-scoped lookup matched no record. A
// monster owned by someone else is indistinguishable from one that
// does not exist.
type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}
