package pagination

type PageRequest struct {
	BeforeCursor *string
	AfterCursor  *string
	Limit        int
}

func (r PageRequest) HasAfter() bool {
	return r.AfterCursor != nil && *r.AfterCursor != ""
}

func (r PageRequest) HasBefore() bool {
	return r.BeforeCursor != nil && *r.BeforeCursor != ""
}

type Page[T any] struct {
	Count           int
	Items           []T
	StartCursor     *string
	EndCursor       *string
	HasNextPage     bool
	HasPreviousPage bool
}
