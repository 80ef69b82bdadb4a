package base

import (
	"math/rand"
	"sync"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 6.1; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
}

// Identity is one browser-facing identity: user agent plus optional proxy.
type Identity struct {
	UserAgent string
	Proxy     string
}

// IdentityPool hands out rotated identities. Proxies cycle round-robin via
// an internal sequencer; user agents are drawn at random from a fixed
// pool. Safe for concurrent use.
type IdentityPool struct {
	proxies []string
	mu      sync.Mutex
	next    int
}

func NewIdentityPool(proxies []string) *IdentityPool {
	return &IdentityPool{proxies: proxies}
}

// Next returns the next identity in rotation. With no proxies configured
// every identity is a direct connection.
func (p *IdentityPool) Next() Identity {
	p.mu.Lock()
	defer p.mu.Unlock()

	var proxy string
	if len(p.proxies) > 0 {
		proxy = p.proxies[p.next%len(p.proxies)]
		p.next++
	}
	return Identity{
		UserAgent: userAgents[rand.Intn(len(userAgents))],
		Proxy:     proxy,
	}
}
