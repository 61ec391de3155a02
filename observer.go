package memo

import (
	"context"
	"time"
)

// Observer receives events for cache operations. The library itself never
// logs; attach an observer to feed metrics or logging of your choosing.
type Observer interface {
	OnMemoOp(op string, key any, hit bool, dur time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(op string, key any, hit bool, dur time.Duration)

// OnMemoOp implements Observer.
func (f ObserverFunc) OnMemoOp(op string, key any, hit bool, dur time.Duration) {
	if f == nil {
		return
	}
	f(op, key, hit, dur)
}

// StoreObserver receives events for scoped store operations.
type StoreObserver interface {
	OnStoreOp(ctx context.Context, op string, scope, key string, hit bool, err error, dur time.Duration, driver Driver)
}

// StoreObserverFunc adapts a function to the StoreObserver interface.
type StoreObserverFunc func(ctx context.Context, op string, scope, key string, hit bool, err error, dur time.Duration, driver Driver)

// OnStoreOp implements StoreObserver.
func (f StoreObserverFunc) OnStoreOp(ctx context.Context, op string, scope, key string, hit bool, err error, dur time.Duration, driver Driver) {
	if f == nil {
		return
	}
	f(ctx, op, scope, key, hit, err, dur, driver)
}
