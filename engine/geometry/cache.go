package geometry

import "sync"

// Cache memoizes Generate per shape type. Generation is deterministic, so the first result for a type
// is valid for the life of the process.
type Cache struct {
	mu     *sync.Mutex
	meshes map[ShapeType]Mesh
}

// NewCache creates an empty mesh cache.
func NewCache() *Cache {
	return &Cache{
		mu:     &sync.Mutex{},
		meshes: make(map[ShapeType]Mesh),
	}
}

// Get returns the cached mesh for t, generating it on first use. Unknown types are never cached.
func (c *Cache) Get(t ShapeType) (Mesh, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.meshes[t]; ok {
		return m, nil
	}
	m, err := Generate(t)
	if err != nil {
		return Mesh{}, err
	}
	c.meshes[t] = m
	return m, nil
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.meshes)
}
