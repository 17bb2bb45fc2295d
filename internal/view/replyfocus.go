package view

// ReplyFocus tracks the single comment whose reply composer is open.
type ReplyFocus struct {
	id   int64
	open bool
}

// Toggle opens the composer on id, moving it away from any other comment,
// or closes it when it is already open on id.
func (f *ReplyFocus) Toggle(id int64) {
	if f.open && f.id == id {
		f.Clear()
		return
	}
	f.id, f.open = id, true
}

func (f *ReplyFocus) Clear() {
	f.id, f.open = 0, false
}

func (f *ReplyFocus) Current() (int64, bool) {
	return f.id, f.open
}

func (f *ReplyFocus) Is(id int64) bool {
	return f.open && f.id == id
}
