package colormap

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry resolves colormaps by name or file path. Files are parsed
// once and kept in an LRU cache; colormaps added with Register shadow
// the built-ins.
type Registry struct {
	files *lru.Cache[string, *Interpolated]

	mu     sync.RWMutex
	custom map[string]Colormap
}

// NewRegistry returns a registry caching up to size parsed files.
func NewRegistry(size int) (*Registry, error) {
	if size < 1 {
		size = 1
	}
	files, err := lru.New[string, *Interpolated](size)
	if err != nil {
		return nil, err
	}
	return &Registry{files: files, custom: map[string]Colormap{}}, nil
}

// Register makes cm available under its name.
func (r *Registry) Register(cm Colormap) {
	r.mu.Lock()
	r.custom[strings.ToLower(cm.Name())] = cm
	r.mu.Unlock()
}

// Load parses the colormap file at path, or returns the cached copy.
func (r *Registry) Load(path string) (*Interpolated, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if cm, ok := r.files.Get(key); ok {
		return cm, nil
	}

	cm, err := Load(path)
	if err != nil {
		return nil, err
	}
	r.files.Add(key, cm)
	return cm, nil
}

// Get returns the registered or built-in colormap called name. Unknown
// names fall back to Jet.
func (r *Registry) Get(name string) Colormap {
	r.mu.RLock()
	cm, ok := r.custom[strings.ToLower(strings.TrimSpace(name))]
	r.mu.RUnlock()
	if ok {
		return cm
	}
	return ByName(name)
}

// Names lists built-in and registered colormap names, sorted.
func (r *Registry) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, n := range Names() {
		seen[strings.ToLower(n)] = true
		names = append(names, n)
	}

	r.mu.RLock()
	for key, cm := range r.custom {
		if !seen[key] {
			names = append(names, cm.Name())
		}
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}
