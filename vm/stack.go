package vm

const (
	STACK_LIMIT = 16 // Stack slots, slot 0 is never written.
)

// Stack is the return address stack. SP indexes the most recently pushed
// slot; SP == 0 is the empty stack, so at most STACK_LIMIT-1 calls nest.
type Stack struct {
	SP   uint8
	Data [STACK_LIMIT]uint16
}

// Push stores a return address, incrementing SP first.
func (s *Stack) Push(value uint16) (err error) {
	if s.Full() {
		err = ErrStackFull
		return
	}

	s.SP++
	s.Data[s.SP] = value
	return
}

// Pop reads the most recent return address, then decrements SP.
func (s *Stack) Pop() (value uint16, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackEmpty
		return
	}

	s.SP--
	return
}

// Peek returns the most recent return address without removing it.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.SP], true
}

func (s *Stack) Empty() bool {
	return s.SP == 0
}

func (s *Stack) Full() bool {
	return int(s.SP) >= STACK_LIMIT-1
}

// Depth returns the number of return addresses on the stack.
func (s *Stack) Depth() int {
	return int(s.SP)
}

func (s *Stack) Reset() {
	s.SP = 0
	clear(s.Data[:])
}
