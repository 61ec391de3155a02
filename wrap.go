package memo

// Wrappers turn a method body into a memoizing (or cache-mutating)
// variant of itself. They come in three key strategies, each in a no-arg
// and a one-arg shape; methods with several parameters pack them into a
// struct for the arg slot.
//
//   - Memoize*: static key, fixed at wrap time. Look up, compute on miss.
//   - MemoizeKeyed: key derived per call from the argument, so distinct
//     arguments cache independently.
//   - Invalidate*: remove the key, then call through.
//   - Refresh*: call through, then unconditionally store the result.
//
// The owner is always excluded from key derivation; isolation between
// owners comes from the registry. Errors from the wrapped body or the key
// function propagate unmodified and never disturb the cache.

// KeyFunc derives a cache key from a call argument. It must be
// deterministic, and injective enough that argument values which must not
// share an entry map to distinct keys.
type KeyFunc[A any] func(arg A) any

// Memoize wraps a no-arg method body with a static cache key.
//
// Example: expensive lookup computed once per instance
//
//	type Repo struct{ url string }
//
//	head := memo.Memoize("head", func(r *Repo) (string, error) {
//		return fetchHead(r.url)
//	})
//	h1, _ := head(repo) // fetches
//	h2, _ := head(repo) // cached, h2 == h1
func Memoize[O, V any](key any, fn func(*O) (V, error)) func(*O) (V, error) {
	return func(owner *O) (V, error) {
		c := For(owner)
		if stored, ok := c.Lookup(key); ok {
			hit, _ := stored.(V)
			return hit, nil
		}
		value, err := fn(owner)
		if err != nil {
			var zero V
			return zero, err
		}
		c.Set(key, value)
		return value, nil
	}
}

// MemoizeArg is Memoize for bodies that take an argument. The key stays
// fixed across calls, so every argument combination shares one entry;
// use MemoizeKeyed when results must vary by argument.
func MemoizeArg[O, A, V any](key any, fn func(*O, A) (V, error)) func(*O, A) (V, error) {
	return func(owner *O, arg A) (V, error) {
		c := For(owner)
		if stored, ok := c.Lookup(key); ok {
			hit, _ := stored.(V)
			return hit, nil
		}
		value, err := fn(owner, arg)
		if err != nil {
			var zero V
			return zero, err
		}
		c.Set(key, value)
		return value, nil
	}
}

// MemoizeKeyed wraps a body with a per-call key derived from the
// argument. Calls whose arguments derive distinct keys compute and cache
// independently.
//
// Example: cache per tag
//
//	manifest := memo.MemoizeKeyed(
//		func(tag string) any { return "manifest:" + tag },
//		func(r *Repo, tag string) ([]byte, error) { return r.pull(tag) },
//	)
func MemoizeKeyed[O, A, V any](keyFn KeyFunc[A], fn func(*O, A) (V, error)) func(*O, A) (V, error) {
	return func(owner *O, arg A) (V, error) {
		key := keyFn(arg)
		c := For(owner)
		if stored, ok := c.Lookup(key); ok {
			hit, _ := stored.(V)
			return hit, nil
		}
		value, err := fn(owner, arg)
		if err != nil {
			var zero V
			return zero, err
		}
		c.Set(key, value)
		return value, nil
	}
}

// Invalidate wraps a body so the static key is removed before the call,
// forcing the next memoized lookup under that key to recompute. The
// body's result passes through untouched.
func Invalidate[O, V any](key any, fn func(*O) (V, error)) func(*O) (V, error) {
	return func(owner *O) (V, error) {
		For(owner).Remove(key)
		return fn(owner)
	}
}

// InvalidateArg is Invalidate for bodies that take an argument.
func InvalidateArg[O, A, V any](key any, fn func(*O, A) (V, error)) func(*O, A) (V, error) {
	return func(owner *O, arg A) (V, error) {
		For(owner).Remove(key)
		return fn(owner, arg)
	}
}

// InvalidateKeyed removes the derived key before calling through.
func InvalidateKeyed[O, A, V any](keyFn KeyFunc[A], fn func(*O, A) (V, error)) func(*O, A) (V, error) {
	return func(owner *O, arg A) (V, error) {
		For(owner).Remove(keyFn(arg))
		return fn(owner, arg)
	}
}

// Refresh wraps a body so its result both returns to the caller and
// unconditionally overwrites the entry for the static key, whether or not
// one existed. An error stores nothing.
func Refresh[O, V any](key any, fn func(*O) (V, error)) func(*O) (V, error) {
	return func(owner *O) (V, error) {
		value, err := fn(owner)
		if err != nil {
			var zero V
			return zero, err
		}
		For(owner).Set(key, value)
		return value, nil
	}
}

// RefreshArg is Refresh for bodies that take an argument.
func RefreshArg[O, A, V any](key any, fn func(*O, A) (V, error)) func(*O, A) (V, error) {
	return func(owner *O, arg A) (V, error) {
		value, err := fn(owner, arg)
		if err != nil {
			var zero V
			return zero, err
		}
		For(owner).Set(key, value)
		return value, nil
	}
}

// RefreshKeyed overwrites the derived key with the body's result.
func RefreshKeyed[O, A, V any](keyFn KeyFunc[A], fn func(*O, A) (V, error)) func(*O, A) (V, error) {
	return func(owner *O, arg A) (V, error) {
		key := keyFn(arg)
		value, err := fn(owner, arg)
		if err != nil {
			var zero V
			return zero, err
		}
		For(owner).Set(key, value)
		return value, nil
	}
}
