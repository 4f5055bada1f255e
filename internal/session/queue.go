package session

import "sort"

// QueuedCommand is a command-language line with its sequence number.
type QueuedCommand struct {
	Sequence uint32
	Line     string
}

// CommandQueue stores command lines keyed by sequence number,
// deduplicating and ordering them, matching the teacher's
// sequence-ordered reconciliation queue but carrying command strings
// destined for internal/command.Controller instead of input frames.
type CommandQueue struct {
	commands     map[uint32]*QueuedCommand
	ordered      []uint32
	maxSize      int
	nextSequence uint32
}

// NewCommandQueue creates a new command queue with the specified
// maximum size.
func NewCommandQueue(maxSize int) *CommandQueue {
	return &CommandQueue{
		commands:     make(map[uint32]*QueuedCommand),
		ordered:      make([]uint32, 0),
		maxSize:      maxSize,
		nextSequence: 1,
	}
}

// Enqueue adds a command line with the specified sequence number.
// Returns false if the sequence has already been processed, is a
// duplicate of one still queued, or the queue is full.
func (q *CommandQueue) Enqueue(seq uint32, line string) bool {
	if seq < q.nextSequence {
		return false
	}
	if _, exists := q.commands[seq]; exists {
		return false
	}
	if len(q.commands) >= q.maxSize {
		return false
	}

	q.commands[seq] = &QueuedCommand{Sequence: seq, Line: line}
	q.ordered = append(q.ordered, seq)
	sort.Slice(q.ordered, func(i, j int) bool { return q.ordered[i] < q.ordered[j] })

	return true
}

// Dequeue removes and returns the next command line in sequence order
// (lowest sequence first). Returns false if the queue is empty.
func (q *CommandQueue) Dequeue() (*QueuedCommand, bool) {
	if len(q.ordered) == 0 {
		return nil, false
	}

	seq := q.ordered[0]
	q.ordered = q.ordered[1:]

	cmd := q.commands[seq]
	delete(q.commands, seq)
	q.nextSequence = seq + 1

	return cmd, true
}

// Peek returns the next command line without removing it.
func (q *CommandQueue) Peek() (*QueuedCommand, bool) {
	if len(q.ordered) == 0 {
		return nil, false
	}
	seq := q.ordered[0]
	return q.commands[seq], true
}

// Size returns the current number of queued commands.
func (q *CommandQueue) Size() int { return len(q.commands) }

// IsEmpty reports whether the queue is empty.
func (q *CommandQueue) IsEmpty() bool { return len(q.commands) == 0 }

// Clear removes every queued command. nextSequence is left untouched,
// since it tracks what has already been processed.
func (q *CommandQueue) Clear() {
	q.commands = make(map[uint32]*QueuedCommand)
	q.ordered = make([]uint32, 0)
}
