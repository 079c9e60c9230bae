package strategy

import (
	"math/rand"
	"sync"

	"bitwyre-maker-go/order"
)

// CancelPolicy picks a random subset of open orders to cancel each cycle,
// simulating churn. The bound is a per-side sample cap; zero or negative
// disables cancellation entirely (legal but degenerate).
type CancelPolicy struct {
	mu    sync.Mutex
	bound int
	rng   *rand.Rand
}

func NewCancelPolicy(bound int, rng *rand.Rand) *CancelPolicy {
	return &CancelPolicy{bound: bound, rng: rng}
}

// Select returns the IDs of up to bound random bids plus up to bound
// random asks.
func (p *CancelPolicy) Select(bids, asks []order.Order) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bound <= 0 {
		return nil
	}
	ids := p.sample(bids)
	return append(ids, p.sample(asks)...)
}

func (p *CancelPolicy) sample(orders []order.Order) []string {
	n := p.bound
	if len(orders) < n {
		n = len(orders)
	}
	if n == 0 {
		return nil
	}
	picked := make([]string, 0, n)
	for _, i := range p.rng.Perm(len(orders))[:n] {
		picked = append(picked, orders[i].ID)
	}
	return picked
}

// SetBound swaps the sample cap; used by config hot reload.
func (p *CancelPolicy) SetBound(bound int) {
	p.mu.Lock()
	p.bound = bound
	p.mu.Unlock()
}
