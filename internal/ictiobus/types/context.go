package types

// Context is an opaque bag of named values supplied by the caller of a parse
// and threaded unchanged into every token transform and every reducer
// invoked along the way. A nil Context is treated as empty.
type Context map[string]any

// Get returns the value stored under key, and whether it was present. A nil
// Context always reports false.
func (c Context) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c[key]
	return v, ok
}
