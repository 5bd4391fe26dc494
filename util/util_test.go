package util

import "testing"

func TestPtrDeref(t *testing.T) {
	p := Ptr(42)
	if *p != 42 {
		t.Errorf("Ptr(42) points to %d", *p)
	}
	if got := Deref(p); got != 42 {
		t.Errorf("Deref = %d, want 42", got)
	}
	var nilPtr *string
	if got := Deref(nilPtr); got != "" {
		t.Errorf("Deref(nil) = %q, want empty", got)
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "x", "y"); got != "x" {
		t.Errorf("Coalesce = %q, want x", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce all-zero = %d, want 0", got)
	}
	if got := Coalesce(3, 1); got != 3 {
		t.Errorf("Coalesce = %d, want 3", got)
	}
}

func TestContains(t *testing.T) {
	list := []string{"a", "b", "c"}
	if !Contains(list, "b") {
		t.Error("expected Contains to find b")
	}
	if Contains(list, "z") {
		t.Error("did not expect Contains to find z")
	}
}

func TestKeys(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}
	keys := Keys(m)
	if len(keys) != 2 {
		t.Fatalf("Keys returned %d entries, want 2", len(keys))
	}
	if !Contains(keys, "a") || !Contains(keys, "b") {
		t.Errorf("Keys = %v, want a and b", keys)
	}
}
