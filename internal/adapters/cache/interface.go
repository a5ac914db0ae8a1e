package cache

type hitResult[T any] struct {
	data T
	// valid is false for entries that have been claimed but not yet set
	valid bool
	// claimed is true if this call claimed the entry
	claimed bool
}

// Cache is a key-value cache with a claim protocol: the first caller to
// miss on a key claims it and is responsible for either setting or deleting
// it, while concurrent callers wait for the claim to resolve.
type Cache[T any] interface {
	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	delete(key string)
	wait()
}
