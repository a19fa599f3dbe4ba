package process

// DefaultLogLines is how many trailing output lines are retained for
// failure diagnostics.
const DefaultLogLines = 100

// LogBuffer retains the most recent lines emitted by a subprocess, in
// arrival order. Once at capacity, each push evicts the oldest retained
// line; older output is gone for reporting purposes.
type LogBuffer struct {
	buf  []string
	next int
	full bool
}

// NewLogBuffer returns a buffer retaining up to capacity lines.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogLines
	}
	return &LogBuffer{buf: make([]string, capacity)}
}

// Push appends line, evicting the oldest retained line when full.
func (b *LogBuffer) Push(line string) {
	b.buf[b.next] = line
	b.next = (b.next + 1) % len(b.buf)
	if b.next == 0 {
		b.full = true
	}
}

// Len returns the number of retained lines.
func (b *LogBuffer) Len() int {
	if b.full {
		return len(b.buf)
	}
	return b.next
}

// Lines returns the retained lines oldest-to-newest.
func (b *LogBuffer) Lines() []string {
	if !b.full {
		out := make([]string, b.next)
		copy(out, b.buf[:b.next])
		return out
	}
	out := make([]string, 0, len(b.buf))
	out = append(out, b.buf[b.next:]...)
	out = append(out, b.buf[:b.next]...)
	return out
}
