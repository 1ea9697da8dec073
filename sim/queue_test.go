package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with customers [1, 2]
	wq := &WaitQueue{}
	c1 := &Customer{ID: 1}
	c2 := &Customer{ID: 2}
	wq.Enqueue(c1)
	wq.Enqueue(c2)

	// WHEN Peek() is called
	got := wq.Peek()

	// THEN it returns the oldest customer without removing it
	if got != c1 {
		t.Errorf("Peek: got customer %v, want %v", got.ID, c1.ID)
	}
	if wq.Len() != 2 {
		t.Errorf("Peek modified queue length: got %d, want 2", wq.Len())
	}
}

func TestWaitQueue_Peek_Empty_ReturnsNil(t *testing.T) {
	wq := &WaitQueue{}
	if got := wq.Peek(); got != nil {
		t.Errorf("Peek on empty queue: got %v, want nil", got)
	}
}

func TestWaitQueue_At_IndexesOldestFirst(t *testing.T) {
	wq := &WaitQueue{}
	for id := 1; id <= 3; id++ {
		wq.Enqueue(&Customer{ID: id})
	}

	assert.Equal(t, 1, wq.At(0).ID)
	assert.Equal(t, 3, wq.At(2).ID)
	assert.Nil(t, wq.At(3), "out of range index")
	assert.Nil(t, wq.At(-1), "negative index")
}

func TestWaitQueue_Head_ClampsToLength(t *testing.T) {
	wq := &WaitQueue{}
	wq.Enqueue(&Customer{ID: 1})
	wq.Enqueue(&Customer{ID: 2})

	assert.Len(t, wq.Head(1), 1)
	assert.Len(t, wq.Head(5), 2)
	assert.Len(t, wq.Head(-1), 0)
	assert.Equal(t, 2, wq.Len(), "Head must not remove")
}

func TestWaitQueue_DequeueBatch(t *testing.T) {
	tests := []struct {
		name        string
		policy      RemovalPolicy
		n           int
		wantRemoved []int
		wantLeft    []int
	}{
		{"fifo removes oldest", RemovalFIFO, 2, []int{1, 2}, []int{3, 4}},
		{"empty policy behaves as fifo", "", 1, []int{1}, []int{2, 3, 4}},
		{"lifo removes newest", RemovalLIFO, 2, []int{4, 3}, []int{1, 2}},
		{"more than available", RemovalFIFO, 10, []int{1, 2, 3, 4}, []int{}},
		{"zero", RemovalFIFO, 0, []int{}, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a queue with customers [1, 2, 3, 4]
			wq := &WaitQueue{}
			for id := 1; id <= 4; id++ {
				wq.Enqueue(&Customer{ID: id})
			}

			// WHEN DequeueBatch is called
			removed := wq.DequeueBatch(tt.n, tt.policy)

			// THEN the removed customers and the remainder match the policy
			gotRemoved := make([]int, 0, len(removed))
			for _, c := range removed {
				gotRemoved = append(gotRemoved, c.ID)
			}
			assert.Equal(t, tt.wantRemoved, gotRemoved)
			assert.Equal(t, tt.wantLeft, queueIDs(wq))
		})
	}
}

func TestWaitQueue_String(t *testing.T) {
	wq := &WaitQueue{}
	assert.Equal(t, "[]", wq.String())
	wq.Enqueue(&Customer{ID: 7})
	wq.Enqueue(&Customer{ID: 9})
	assert.Equal(t, "[7 9]", wq.String())
}

func TestRemovalPolicy_Set(t *testing.T) {
	var p RemovalPolicy
	assert.Equal(t, "fifo", p.String(), "zero value reports the default")

	require.NoError(t, p.Set(" LIFO "))
	assert.Equal(t, RemovalLIFO, p)
	assert.Equal(t, "policy", p.Type())

	err := p.Set("random")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	assert.Equal(t, RemovalLIFO, p, "failed Set must not change the value")
}
