package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_SetNotifiesOnChange(t *testing.T) {
	s := NewSignal("/")
	calls := 0
	s.Subscribe(func() { calls++ })

	s.Set("/about")
	s.Set("/about")

	assert.Equal(t, "/about", s.Get())
	assert.Equal(t, 1, calls, "setting an equal value must not notify")
}

func TestSignal_UnsubscribeMiddle(t *testing.T) {
	s := NewSignal(0)
	var got []string
	s.Subscribe(func() { got = append(got, "a") })
	unsubB := s.Subscribe(func() { got = append(got, "b") })
	s.Subscribe(func() { got = append(got, "c") })

	unsubB()
	unsubB()
	s.Set(1)

	assert.Equal(t, []string{"a", "c"}, got)
	assert.Equal(t, 2, s.Subscribers())
}
