package part

// Accessor reads and writes the live value a part is bound to.
type Accessor[T any] interface {
	Get() T
	Set(T)
}

// Serializable is a live value that converts itself to and from a text
// payload.
type Serializable interface {
	// Save renders the value as text.
	Save() (string, error)

	// Load replaces the value with the one parsed from data.
	Load(data string) error

	// Clear resets the value to its default state.
	Clear()
}

// Slot holds a live value and notifies observers after every Set.
type Slot[T any] struct {
	value     T
	observers []func(T)
}

// NewSlot returns an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{}
}

// Get returns the current value.
func (s *Slot[T]) Get() T { return s.value }

// Set stores v and calls every observer with it, in registration order.
func (s *Slot[T]) Set(v T) {
	s.value = v
	for _, fn := range s.observers {
		fn(v)
	}
}

// OnChange registers fn to run after every Set.
func (s *Slot[T]) OnChange(fn func(T)) {
	s.observers = append(s.observers, fn)
}
