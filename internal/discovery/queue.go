package discovery

import "sort"

// QueueItem is one pending traversal step.
type QueueItem struct {
	ID        int64
	Depth     int
	Direction Direction
}

// TraversalQueue is the BFS frontier: FIFO with a bounded size. When the
// queue overflows, the shallowest items survive — exploring near the entry
// point matters more than finishing deep tails.
type TraversalQueue struct {
	items   []QueueItem
	maxSize int
}

// NewTraversalQueue returns an empty queue bounded at MaxQueueSize.
func NewTraversalQueue() *TraversalQueue {
	return &TraversalQueue{maxSize: MaxQueueSize}
}

// Push appends an item, pruning deep items when the queue overflows.
func (q *TraversalQueue) Push(item QueueItem) {
	q.items = append(q.items, item)
	if len(q.items) > q.maxSize {
		sort.SliceStable(q.items, func(i, j int) bool {
			return q.items[i].Depth < q.items[j].Depth
		})
		q.items = q.items[:q.maxSize]
	}
}

// Pop removes and returns the oldest item. ok is false when the queue is empty.
func (q *TraversalQueue) Pop() (item QueueItem, ok bool) {
	if len(q.items) == 0 {
		return QueueItem{}, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of queued items.
func (q *TraversalQueue) Len() int {
	return len(q.items)
}
