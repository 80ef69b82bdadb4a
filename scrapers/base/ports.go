package base

import (
	"fmt"
	"sync"
)

// PortLeaser hands out chromedriver ports so concurrent selenium fetches
// never collide on the same instance.
type PortLeaser struct {
	base   int
	count  int
	leased map[int]bool
	mu     sync.Mutex
}

var (
	DriverPorts *PortLeaser
	portsOnce   sync.Once
)

// InitDriverPorts initializes the shared leaser on first use.
func InitDriverPorts(base, count int) {
	portsOnce.Do(func() {
		DriverPorts = &PortLeaser{
			base:   base,
			count:  count,
			leased: make(map[int]bool, count),
		}
	})
}

// Lease reserves a free port from the range.
func (p *PortLeaser) Lease() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < p.count; i++ {
		port := p.base + i
		if !p.leased[port] {
			p.leased[port] = true
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available ports in range %d-%d", p.base, p.base+p.count-1)
}

// Release returns a leased port to the pool.
func (p *PortLeaser) Release(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.leased, port)
}
