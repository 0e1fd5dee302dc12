package motionpath

import "sync"

// Cache хранит построенные семплеры по строке пути, чтобы неизменная
// геометрия источника не перестраивалась на каждом кадре.
type Cache struct {
	entries map[string]*Sampler
	mu      sync.RWMutex
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Sampler)}
}

// Get возвращает семплер для d, строя его при первом обращении.
// Ошибка разбора кэшируется как nil, повторно путь не разбирается.
func (c *Cache) Get(d string) (*Sampler, bool) {
	c.mu.RLock()
	s, exists := c.entries[d]
	c.mu.RUnlock()

	if !exists {
		c.mu.Lock()
		// Double check
		s, exists = c.entries[d]
		if !exists {
			parsed, err := Parse(d)
			if err != nil {
				parsed = nil
			}
			s = parsed
			c.entries[d] = s
		}
		c.mu.Unlock()
	}

	return s, s != nil
}

// Invalidate drops the entry for d.
func (c *Cache) Invalidate(d string) {
	c.mu.Lock()
	delete(c.entries, d)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]*Sampler)
	c.mu.Unlock()
}
