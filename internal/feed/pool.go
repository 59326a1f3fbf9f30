package feed

import "fmt"

// DefaultPoolSize is the number of placeholder images in DefaultPool.
const DefaultPoolSize = 20

// DefaultPool returns the built-in placeholder image URLs.
func DefaultPool() []string {
	pool := make([]string, 0, DefaultPoolSize)
	for i := 1; i <= DefaultPoolSize; i++ {
		pool = append(pool, fmt.Sprintf("https://picsum.photos/400/800?random=%d", i))
	}
	return pool
}
