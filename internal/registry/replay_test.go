package registry_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mind-engage/verifytoken/internal/registry"
)

func mustUse(t *testing.T, r registry.ReplayProtector, kind, value string) bool {
	t.Helper()
	ok, err := r.Use(kind, value)
	if err != nil {
		t.Fatalf("Use(%q, %q): %v", kind, value, err)
	}
	return ok
}

func TestUseOnce(t *testing.T) {
	r := registry.NewInMemoryReplay()

	if r.Used(registry.KindToken, "abc") {
		t.Fatalf("fresh registry reports abc as used")
	}
	if !mustUse(t, r, registry.KindToken, "abc") {
		t.Fatalf("first use of abc rejected")
	}
	if !r.Used(registry.KindToken, "abc") {
		t.Fatalf("abc not marked used")
	}
	if mustUse(t, r, registry.KindToken, "abc") {
		t.Fatalf("second use of abc accepted")
	}
	if got := r.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
}

func TestEmptyValueIsUsableOnce(t *testing.T) {
	r := registry.NewInMemoryReplay()
	if !mustUse(t, r, registry.KindToken, "") {
		t.Fatalf("first empty-token use rejected")
	}
	if mustUse(t, r, registry.KindToken, "") {
		t.Fatalf("second empty-token use accepted")
	}
}

func TestValuesAreNotTrimmed(t *testing.T) {
	r := registry.NewInMemoryReplay()
	mustUse(t, r, registry.KindToken, "abc")
	if !mustUse(t, r, registry.KindToken, " abc") {
		t.Fatalf(`" abc" treated as a replay of "abc"`)
	}
}

func TestKindsAreSeparate(t *testing.T) {
	r := registry.NewInMemoryReplay()
	mustUse(t, r, "token", "x")
	if !mustUse(t, r, "nonce", "x") {
		t.Fatalf("value shared across kinds")
	}
	if mustUse(t, r, " TOKEN ", "x") {
		t.Fatalf("kind not normalised")
	}
	if !mustUse(t, r, "a|b", "c") || !mustUse(t, r, "a", "b|c") {
		t.Fatalf("distinct pairs collided")
	}
}

func TestUseRequiresKind(t *testing.T) {
	r := registry.NewInMemoryReplay()
	if _, err := r.Use("  ", "abc"); err == nil {
		t.Fatalf("expected error for empty kind")
	}
	if r.Len() != 0 {
		t.Fatalf("rejected call recorded an entry")
	}
}

func TestDistinctTokens(t *testing.T) {
	r := registry.NewInMemoryReplay()
	for i := 0; i < 100; i++ {
		if !mustUse(t, r, registry.KindToken, fmt.Sprintf("tok-%d", i)) {
			t.Fatalf("use tok-%d rejected", i)
		}
	}
	if got := r.Len(); got != 100 {
		t.Fatalf("Len = %d, want 100", got)
	}
}

func TestConcurrentUseSingleWinner(t *testing.T) {
	r := registry.NewInMemoryReplay()

	const workers = 64
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
		gate = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-gate
			if ok, err := r.Use(registry.KindToken, "race"); err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	close(gate)
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Fatalf("winners = %d, want exactly 1", got)
	}
	if got := r.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
}
