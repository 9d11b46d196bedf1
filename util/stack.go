package util

// Stack is a LIFO used for back navigation.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the newest item. ok is false when the stack is empty.
func (s *Stack[T]) Pop() (item T, ok bool) {
	item, ok = s.Peek()
	if ok {
		s.items = s.items[:len(s.items)-1]
	}
	return item, ok
}

// Peek returns the newest item without removing it.
func (s *Stack[T]) Peek() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
