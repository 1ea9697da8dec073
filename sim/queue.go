// Implements the WaitQueue, which holds every customer that has arrived but
// whose batch has not yet completed service. Customers are enqueued on arrival.

package sim

import (
	"fmt"
	"strings"
)

// RemovalPolicy selects which end of the WaitQueue a departing batch is taken from.
type RemovalPolicy string

const (
	// RemovalFIFO removes the oldest customers, i.e. exactly the batch that was
	// stamped when it entered service.
	RemovalFIFO RemovalPolicy = "fifo"
	// RemovalLIFO removes the newest customers. Batch stamping stays oldest-first,
	// so with batch sizes above one the removed customers can differ from the
	// stamped ones. Kept for parity with the legacy model.
	RemovalLIFO RemovalPolicy = "lifo"
)

var validRemovalPolicies = map[RemovalPolicy]bool{
	RemovalFIFO: true,
	RemovalLIFO: true,
	"":          true, // empty defaults to fifo
}

// IsValidRemovalPolicy returns true if the given string names a removal policy.
func IsValidRemovalPolicy(p string) bool {
	return validRemovalPolicies[RemovalPolicy(p)]
}

// String implements pflag.Value.
func (p *RemovalPolicy) String() string {
	if p == nil || *p == "" {
		return string(RemovalFIFO)
	}
	return string(*p)
}

// Set implements pflag.Value.
func (p *RemovalPolicy) Set(s string) error {
	v := RemovalPolicy(strings.ToLower(strings.TrimSpace(s)))
	if v == "" || !validRemovalPolicies[v] {
		return fmt.Errorf("%w: removal policy %q (want fifo or lifo)", ErrInvalidParameter, s)
	}
	*p = v
	return nil
}

// Type implements pflag.Value.
func (p *RemovalPolicy) Type() string {
	return "policy"
}

// WaitQueue is the ordered group of customers present in the system
// (waiting or in service). Index 0 is the oldest customer.
type WaitQueue struct {
	queue []*Customer
}

// Enqueue adds a customer to the back of the queue.
func (wq *WaitQueue) Enqueue(c *Customer) {
	wq.queue = append(wq.queue, c)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, c := range wq.queue {
		fmt.Fprintf(&sb, "%d", c.ID)
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of customers in the queue.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the oldest customer without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *Customer {
	if len(wq.queue) == 0 {
		return nil
	}
	return wq.queue[0]
}

// At returns the customer at index i (0 = oldest), or nil when out of range.
func (wq *WaitQueue) At(i int) *Customer {
	if i < 0 || i >= len(wq.queue) {
		return nil
	}
	return wq.queue[i]
}

// Head returns up to n of the oldest customers, oldest first.
// The returned slice aliases the queue's storage and MUST NOT be modified.
func (wq *WaitQueue) Head(n int) []*Customer {
	if n > len(wq.queue) {
		n = len(wq.queue)
	}
	if n < 0 {
		n = 0
	}
	return wq.queue[:n]
}

// Items returns the queue contents for iteration.
// Callers MUST NOT append to or reslice the returned slice.
func (wq *WaitQueue) Items() []*Customer {
	return wq.queue
}

// DequeueBatch removes n customers according to policy and returns them in
// removal order. Removes fewer when the queue holds fewer than n.
func (wq *WaitQueue) DequeueBatch(n int, policy RemovalPolicy) []*Customer {
	if n > len(wq.queue) {
		n = len(wq.queue)
	}
	if n <= 0 {
		return nil
	}
	removed := make([]*Customer, 0, n)
	switch policy {
	case RemovalLIFO:
		for i := 0; i < n; i++ {
			last := len(wq.queue) - 1
			removed = append(removed, wq.queue[last])
			wq.queue[last] = nil
			wq.queue = wq.queue[:last]
		}
	default:
		removed = append(removed, wq.queue[:n]...)
		for i := 0; i < n; i++ {
			wq.queue[i] = nil
		}
		wq.queue = wq.queue[n:]
	}
	return removed
}
