package deduce

type listNode[T any] struct {
	value T
	next  *listNode[T]
}

// Queue is a FIFO worklist over a singly linked list.
type Queue[T any] struct {
	head *listNode[T]
	tail *listNode[T]
	size int
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Push(e T) {
	n := &listNode[T]{value: e}
	if q.size == 0 {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.size++
}

func (q *Queue[T]) Pop() T {
	if q.size == 0 {
		var zero T
		return zero
	}
	n := q.head
	q.head = n.next
	q.size--
	if q.size == 0 {
		q.tail = nil
	}
	return n.value
}

func (q *Queue[T]) Size() int {
	return q.size
}
