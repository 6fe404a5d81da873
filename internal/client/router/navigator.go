package router

import "sync"

// Stack is an in-memory navigator with a back stack. Listeners are called
// outside the lock and may navigate again.
type Stack struct {
	mu        sync.Mutex
	entries   []string
	listeners []navListener
	nextID    int
}

type navListener struct {
	id int
	fn func(string)
}

func NewStack(initial string) *Stack {
	return &Stack{
		entries: []string{initial},
	}
}

func (s *Stack) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[len(s.entries)-1]
}

// History returns the back stack, oldest first.
func (s *Stack) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.entries...)
}

func (s *Stack) Push(path string) {
	s.change(func() bool {
		s.entries = append(s.entries, path)
		return true
	})
}

// Replace swaps the current entry without growing the stack.
func (s *Stack) Replace(path string) {
	s.change(func() bool {
		s.entries[len(s.entries)-1] = path
		return true
	})
}

// Redirect replaces the current entry with path, or pops back to the entry
// below when that one already is path, so redirects never leave adjacent
// duplicates behind.
func (s *Stack) Redirect(path string) {
	s.change(func() bool {
		n := len(s.entries)
		if n > 1 && s.entries[n-2] == path {
			s.entries = s.entries[:n-1]
			return true
		}
		s.entries[n-1] = path
		return true
	})
}

// Back pops the current entry. It returns false at the root.
func (s *Stack) Back() bool {
	return s.change(func() bool {
		if len(s.entries) == 1 {
			return false
		}
		s.entries = s.entries[:len(s.entries)-1]
		return true
	})
}

func (s *Stack) Subscribe(fn func(path string)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, navListener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Stack) change(fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	cur := s.entries[len(s.entries)-1]
	ls := make([]func(string), len(s.listeners))
	for i, l := range s.listeners {
		ls[i] = l.fn
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(cur)
	}
	return true
}
