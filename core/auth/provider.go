package auth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jaeles-project/gofuzzer/core"
)

// Provider logs into a specific application and hands back a client that
// carries the resulting session.
type Provider interface {
	Name() string
	Login(ctx context.Context, baseURL string, opts core.ClientOptions) (core.HTTPClient, error)
}

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

func Register(p Provider) {
	mu.Lock()
	defer mu.Unlock()
	providers[strings.ToLower(p.Name())] = p
}

// Lookup finds a provider by case-insensitive name.
func Lookup(name string) (Provider, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown auth provider %q (available: %s)", name, strings.Join(namesLocked(), ", "))
	}
	return p, nil
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(NewDVWA())
}
