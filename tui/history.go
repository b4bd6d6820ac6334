package tui

// History keeps recent commands for Up/Down recall.
type History struct {
	entries []string
	max     int
	cursor  int // -1 when not navigating
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push records a command. Consecutive duplicates and meta-commands that
// merely repeat ("again", "g") are not stored.
func (h *History) Push(cmd string) {
	if cmd == "again" || cmd == "g" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Len reports how many commands are stored.
func (h *History) Len() int { return len(h.entries) }

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward. It returns false once past the newest command,
// which means the input line should be cleared.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor stops navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
