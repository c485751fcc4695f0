package attachment

import (
	"os"
)

// queue buffers pending uploads and deletions for one attachment instance.
// It transitions Clean -> Dirty on the first queued entry and back to Clean
// once the corresponding flush succeeds.
type queue struct {
	writes  map[string]*os.File
	deletes []string
}

func newQueue() queue {
	return queue{writes: make(map[string]*os.File)}
}

// queueWrite stages f for upload under style, superseding any write already
// queued for the same style. Reports whether an earlier write was replaced.
func (q *queue) queueWrite(style string, f *os.File) bool {
	_, superseded := q.writes[style]
	q.writes[style] = f
	return superseded
}

// queueDelete stages an object path for deletion. Duplicates are harmless;
// deletion is idempotent at flush time.
func (q *queue) queueDelete(path string) {
	q.deletes = append(q.deletes, path)
}

func (q *queue) dirty() bool {
	return len(q.writes) > 0 || len(q.deletes) > 0
}
