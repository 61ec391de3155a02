package memo

import (
	"errors"
	"fmt"
	"runtime"
	"testing"
)

type imageRepo struct {
	tags  map[string]string
	pulls int
}

func TestMemoizeComputesOncePerOwner(t *testing.T) {
	repo := &imageRepo{}

	head := Memoize("head", func(r *imageRepo) (string, error) {
		r.pulls++
		return fmt.Sprintf("sha-%d", r.pulls), nil
	})

	v1, err := head(repo)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	v2, err := head(repo)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if v1 != "sha-1" || v2 != "sha-1" {
		t.Fatalf("expected cached result, got %q then %q", v1, v2)
	}
	if repo.pulls != 1 {
		t.Fatalf("expected one computation, got %d", repo.pulls)
	}

	runtime.KeepAlive(repo)
}

func TestMemoizeIsolatesOwners(t *testing.T) {
	a := &imageRepo{}
	b := &imageRepo{}

	head := Memoize("head", func(r *imageRepo) (int, error) {
		r.pulls++
		return r.pulls, nil
	})

	if v, _ := head(a); v != 1 {
		t.Fatalf("expected 1 for a, got %d", v)
	}
	if v, _ := head(b); v != 1 {
		t.Fatalf("expected independent computation for b, got %d", v)
	}
	if a.pulls != 1 || b.pulls != 1 {
		t.Fatalf("owners must not share entries: a=%d b=%d", a.pulls, b.pulls)
	}

	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestMemoizeArgSharesOneEntryAcrossArguments(t *testing.T) {
	repo := &imageRepo{}

	resolve := MemoizeArg("resolved", func(r *imageRepo, tag string) (string, error) {
		r.pulls++
		return "img:" + tag, nil
	})

	v1, _ := resolve(repo, "v1")
	v2, _ := resolve(repo, "v2")
	if v1 != "img:v1" || v2 != "img:v1" {
		t.Fatalf("static key ignores arguments: got %q then %q", v1, v2)
	}
	if repo.pulls != 1 {
		t.Fatalf("expected one computation, got %d", repo.pulls)
	}

	runtime.KeepAlive(repo)
}

func TestMemoizeKeyedCachesPerDerivedKey(t *testing.T) {
	repo := &imageRepo{}

	resolve := MemoizeKeyed(
		func(tag string) any { return "tag:" + tag },
		func(r *imageRepo, tag string) (string, error) {
			r.pulls++
			return fmt.Sprintf("img:%s#%d", tag, r.pulls), nil
		},
	)

	a1, _ := resolve(repo, "v1")
	b1, _ := resolve(repo, "v2")
	a2, _ := resolve(repo, "v1")
	if a1 != "img:v1#1" || b1 != "img:v2#2" {
		t.Fatalf("distinct keys must compute independently: %q %q", a1, b1)
	}
	if a2 != a1 {
		t.Fatalf("repeated argument must hit the cache: %q vs %q", a2, a1)
	}
	if repo.pulls != 2 {
		t.Fatalf("expected two computations, got %d", repo.pulls)
	}

	runtime.KeepAlive(repo)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	repo := &imageRepo{}

	head := Memoize("head", func(r *imageRepo) (int, error) {
		r.pulls++
		return r.pulls, nil
	})
	push := Invalidate("head", func(r *imageRepo) (string, error) {
		return "pushed", nil
	})

	if v, _ := head(repo); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	if v, _ := head(repo); v != 1 {
		t.Fatalf("expected cached 1, got %d", v)
	}

	out, err := push(repo)
	if err != nil || out != "pushed" {
		t.Fatalf("invalidating wrapper must pass the result through: %q err=%v", out, err)
	}

	if v, _ := head(repo); v != 2 {
		t.Fatalf("expected recompute after invalidation, got %d", v)
	}

	runtime.KeepAlive(repo)
}

func TestInvalidateAbsentKeyIsNoOp(t *testing.T) {
	repo := &imageRepo{}

	push := Invalidate("never-cached", func(r *imageRepo) (string, error) {
		return "ok", nil
	})
	out, err := push(repo)
	if err != nil || out != "ok" {
		t.Fatalf("expected clean pass-through, got %q err=%v", out, err)
	}

	runtime.KeepAlive(repo)
}

func TestRefreshOverwritesUnconditionally(t *testing.T) {
	repo := &imageRepo{}

	head := Memoize("head", func(r *imageRepo) (int, error) {
		r.pulls++
		return r.pulls * 100, nil
	})
	sync := Refresh("head", func(r *imageRepo) (int, error) {
		r.pulls++
		return r.pulls, nil
	})

	if v, _ := head(repo); v != 100 {
		t.Fatalf("expected 100, got %d", v)
	}

	// Refresh both returns the fresh value and replaces the cached one;
	// the old value is never seen again.
	if v, _ := sync(repo); v != 2 {
		t.Fatalf("expected fresh value 2, got %d", v)
	}
	if v, _ := head(repo); v != 2 {
		t.Fatalf("expected memoized lookup to see refreshed value, got %d", v)
	}

	runtime.KeepAlive(repo)
}

func TestRefreshKeyedAndInvalidateKeyed(t *testing.T) {
	repo := &imageRepo{}
	keyFn := func(tag string) any { return "tag:" + tag }

	resolve := MemoizeKeyed(keyFn, func(r *imageRepo, tag string) (int, error) {
		r.pulls++
		return r.pulls, nil
	})
	refresh := RefreshKeyed(keyFn, func(r *imageRepo, tag string) (int, error) {
		r.pulls++
		return r.pulls * 10, nil
	})
	drop := InvalidateKeyed(keyFn, func(r *imageRepo, tag string) (string, error) {
		return "dropped", nil
	})

	if v, _ := resolve(repo, "v1"); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	if v, _ := refresh(repo, "v1"); v != 20 {
		t.Fatalf("expected refreshed 20, got %d", v)
	}
	if v, _ := resolve(repo, "v1"); v != 20 {
		t.Fatalf("expected cached refreshed value, got %d", v)
	}

	if _, err := drop(repo, "v1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if v, _ := resolve(repo, "v1"); v != 3 {
		t.Fatalf("expected recompute after keyed invalidation, got %d", v)
	}

	runtime.KeepAlive(repo)
}

func TestWrapperErrorsPropagateAndStoreNothing(t *testing.T) {
	repo := &imageRepo{}
	boom := errors.New("pull failed")

	flaky := Memoize("flaky", func(r *imageRepo) (string, error) {
		r.pulls++
		if r.pulls == 1 {
			return "", boom
		}
		return "recovered", nil
	})

	if _, err := flaky(repo); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error to propagate, got %v", err)
	}
	// The failure left no entry behind, so the next call recomputes.
	v, err := flaky(repo)
	if err != nil || v != "recovered" {
		t.Fatalf("expected recovery, got %q err=%v", v, err)
	}
	if v, _ := flaky(repo); v != "recovered" {
		t.Fatalf("expected cached recovery, got %q", v)
	}
	if repo.pulls != 2 {
		t.Fatalf("expected two executions, got %d", repo.pulls)
	}

	runtime.KeepAlive(repo)
}

func TestMemoizedRemoveRecomputeRoundTrip(t *testing.T) {
	repo := &imageRepo{}

	next := Memoize("x", func(r *imageRepo) (int, error) {
		r.pulls++
		return r.pulls, nil
	})

	if v, _ := next(repo); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	if v, _ := next(repo); v != 1 {
		t.Fatalf("expected cached 1, got %d", v)
	}

	Remove(repo, "x")

	if v, _ := next(repo); v != 2 {
		t.Fatalf("expected 2 after raw remove, got %d", v)
	}

	runtime.KeepAlive(repo)
}
