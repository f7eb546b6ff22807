package entity

// ID is an opaque project identifier that is safe to hand to untrusted clients.
type ID string

func (id ID) String() string { return string(id) }
func (id ID) IsZero() bool   { return id == "" }
