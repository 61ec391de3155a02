// Package memo provides per-instance memoization: a method's result is
// computed once per (instance, key) pair and reused on later calls, with
// the cached state tied to the instance's lifetime. When an instance
// becomes unreachable the garbage collector reclaims its cache with it;
// no teardown call exists or is needed.
//
// The core is the weak registry (For) plus the wrapper constructors
// (Memoize, MemoizeKeyed, Invalidate, Refresh and friends) and the raw
// accessors (Set, Get, Remove) for explicit cache management.
//
// On top of that sits a scope-addressed Store abstraction with memory,
// redis, dynamodb, nats, sql and file backends. Bind couples an owner
// instance to a store scope so externally cached bytes are purged when
// the owner is collected, mirroring the in-process lifetime contract.
package memo
