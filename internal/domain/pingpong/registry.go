package pingpong

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

const KindPing = "ping"

var (
	ErrEmptyKind      = errors.New("empty request kind")
	ErrUnknownRequest = errors.New("unknown request kind")
	ErrNilConstructor = errors.New("nil request constructor")
)

type Constructor func() Request

// Registry resolves request kind names to constructors. Names are case-insensitive.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(KindPing, func() Request { return PingRequest{} })

	return r
}

func normalize(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

func (r *Registry) Register(kind string, constructor Constructor) error {
	name := normalize(kind)
	if name == "" {
		return ErrEmptyKind
	}
	if constructor == nil {
		return fmt.Errorf("%w: %q", ErrNilConstructor, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.constructors[name] = constructor

	return nil
}

func (r *Registry) Build(kind string) (Request, error) {
	name := normalize(kind)
	if name == "" {
		return nil, ErrEmptyKind
	}

	r.mu.RLock()
	constructor, ok := r.constructors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequest, kind)
	}

	return constructor(), nil
}

func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.constructors))
	for k := range r.constructors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return kinds
}
