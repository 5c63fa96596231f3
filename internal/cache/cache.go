// Package cache memoizes derived financial views. Keys embed the snapshot
// version, so a write never has to invalidate anything: entries for older
// versions simply stop being read and age out.
package cache

import "fmt"

// Cache is a keyed store of derived views
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Purge()
	Size() int
}

// Key builds a versioned cache key, e.g. Key("financials", 7, "2024-03")
func Key(view string, version uint64, params ...any) string {
	key := fmt.Sprintf("%s:v%d", view, version)
	for _, p := range params {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}
