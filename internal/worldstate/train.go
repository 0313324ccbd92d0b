package worldstate

// TrainQueue is a FIFO of resident ids awaiting spawn, drained on each
// train arrival event (spec §3).
type TrainQueue struct {
	ids []ResidentID
}

// Enqueue adds a resident to the back of the queue.
func (q *TrainQueue) Enqueue(id ResidentID) {
	q.ids = append(q.ids, id)
}

// DrainAll removes and returns every queued resident id, in FIFO order.
func (q *TrainQueue) DrainAll() []ResidentID {
	drained := q.ids
	q.ids = nil
	return drained
}

// Len reports the number of residents currently waiting.
func (q *TrainQueue) Len() int {
	return len(q.ids)
}
