package document

// History is a linear undo/redo stack of document snapshots with a cursor.
// Snapshots before the cursor are undo targets, after it redo targets.
// Pushing truncates everything after the cursor; there is no branching.
type History struct {
	snapshots []Document
	cursor    int
}

// NewHistory starts a history at the given initial document.
func NewHistory(initial Document) *History {
	return &History{snapshots: []Document{initial.Clone()}}
}

// Current returns a copy of the snapshot under the cursor.
func (h *History) Current() Document {
	return h.snapshots[h.cursor].Clone()
}

// Push commits d as the new current snapshot, discarding any redo tail.
func (h *History) Push(d Document) {
	h.snapshots = append(h.snapshots[:h.cursor+1], d.Clone())
	h.cursor = len(h.snapshots) - 1
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Undo moves the cursor back and returns the now-current snapshot.
func (h *History) Undo() (Document, bool) {
	if !h.CanUndo() {
		return Document{}, false
	}
	h.cursor--
	return h.Current(), true
}

// Redo moves the cursor forward and returns the now-current snapshot.
func (h *History) Redo() (Document, bool) {
	if !h.CanRedo() {
		return Document{}, false
	}
	h.cursor++
	return h.Current(), true
}

// Len returns the number of snapshots, including the initial one.
func (h *History) Len() int { return len(h.snapshots) }
