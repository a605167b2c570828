package model

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ListQuery filters and pages a product listing. Search matches names
// case-insensitively as a substring.
type ListQuery struct {
	Search string
	Skip   int
	Limit  int
}

// Normalize clamps Skip to zero or more and Limit to [1, MaxListLimit].
// A Limit of zero or less selects DefaultListLimit.
func (q ListQuery) Normalize() ListQuery {
	if q.Skip < 0 {
		q.Skip = 0
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultListLimit
	case q.Limit > MaxListLimit:
		q.Limit = MaxListLimit
	}
	return q
}
