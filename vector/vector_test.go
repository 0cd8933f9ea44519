package vector

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestBuilder_DomainErrors(t *testing.T) {
	b := NewBuilder([]int64{3, 1, 2, 3})

	if b.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", b.Size())
	}
	if _, err := b.Get(1); !errors.Is(err, ErrKeyUnset) {
		t.Errorf("Get(unset) error = %v, want ErrKeyUnset", err)
	}
	if _, err := b.Get(9); !errors.Is(err, ErrKeyNotInDomain) {
		t.Errorf("Get(out of domain) error = %v, want ErrKeyNotInDomain", err)
	}
	if err := b.Set(9, 1); !errors.Is(err, ErrKeyNotInDomain) {
		t.Errorf("Set(out of domain) error = %v, want ErrKeyNotInDomain", err)
	}
	if err := b.Set(2, 4.5); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, err := b.Get(2); err != nil || got != 4.5 {
		t.Errorf("Get(2) = %v, %v, want 4.5", got, err)
	}
	if err := b.Unset(2); err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	if _, err := b.Get(2); !errors.Is(err, ErrKeyUnset) {
		t.Errorf("Get after Unset error = %v, want ErrKeyUnset", err)
	}
}

func TestBuilder_AddClearFill(t *testing.T) {
	b := NewBuilder([]int64{1, 2, 3})
	_ = b.Add(1, 1)
	_ = b.Add(1, 1)
	_ = b.Add(3, 0.5)

	if got := b.GetOr(1, -1); got != 2 {
		t.Errorf("GetOr(1) = %v, want 2", got)
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}

	b.Clear()
	if b.Len() != 0 || b.Size() != 3 {
		t.Errorf("after Clear: Len() = %d, Size() = %d, want 0, 3", b.Len(), b.Size())
	}

	b.Fill(0)
	if b.Len() != 3 {
		t.Errorf("after Fill: Len() = %d, want 3", b.Len())
	}
	if got, err := b.Get(2); err != nil || got != 0 {
		t.Errorf("Get(2) after Fill(0) = %v, %v, want 0", got, err)
	}
}

func TestBuilder_ShrinkAndFreeze(t *testing.T) {
	b := NewBuilder([]int64{1, 2, 3, 4})
	_ = b.Set(4, 2)
	_ = b.Set(2, 1)

	v := b.Shrink().Freeze()
	if got := v.Domain(); !slices.Equal(got, []int64{2, 4}) {
		t.Errorf("shrunk Domain() = %v, want [2 4]", got)
	}
	if v.Contains(1) {
		t.Error("shrunk vector should not contain unset key 1")
	}

	full := b.Freeze()
	if full.Size() != 4 || full.Len() != 2 {
		t.Errorf("Freeze(): Size() = %d, Len() = %d, want 4, 2", full.Size(), full.Len())
	}
	if _, err := full.Get(1); !errors.Is(err, ErrKeyUnset) {
		t.Errorf("frozen Get(unset) error = %v, want ErrKeyUnset", err)
	}

	// the frozen copy must not observe later builder mutations
	_ = b.Set(4, 100)
	if got := full.GetOr(4, 0); got != 2 {
		t.Errorf("frozen value changed to %v after builder mutation", got)
	}
}

func TestSparseVector_DotAndNorm(t *testing.T) {
	a := NewBuilder([]int64{1, 2, 5})
	_ = a.Set(1, 3)
	_ = a.Set(5, 4)
	b := NewBuilder([]int64{2, 5, 7})
	_ = b.Set(5, 2)
	_ = b.Set(7, 10)

	va, vb := a.Freeze(), b.Freeze()
	if got := va.Dot(vb); got != 8 {
		t.Errorf("Dot() = %v, want 8", got)
	}
	if got := va.Norm(); got != 5 {
		t.Errorf("Norm() = %v, want 5", got)
	}
	if got := Empty().Dot(va); got != 0 {
		t.Errorf("Empty().Dot() = %v, want 0", got)
	}
	if got := Empty().Norm(); got != 0 {
		t.Errorf("Empty().Norm() = %v, want 0", got)
	}
}

func TestBuilder_AddScaled(t *testing.T) {
	profile := NewBuilder([]int64{1, 2, 3})
	profile.Fill(0)

	item := NewBuilder([]int64{2, 3, 9})
	_ = item.Set(2, 1)
	_ = item.Set(9, 1)
	v := item.Freeze()

	profile.AddScaled(v, 2)
	profile.AddScaled(v, -0.5)

	if got := profile.GetOr(2, math.NaN()); got != 1.5 {
		t.Errorf("profile[2] = %v, want 1.5", got)
	}
	if got := profile.GetOr(3, math.NaN()); got != 0 {
		t.Errorf("profile[3] = %v, want 0", got)
	}
	if profile.Contains(9) {
		t.Error("AddScaled must not extend the domain")
	}
}

func TestBuilder_Apply(t *testing.T) {
	b := NewBuilder([]int64{1, 2})
	_ = b.Set(1, 10)
	b.Apply(func(_ int64, v float64) float64 { return v / 2 })

	if got := b.GetOr(1, 0); got != 5 {
		t.Errorf("Apply: got %v, want 5", got)
	}
	if _, err := b.Get(2); !errors.Is(err, ErrKeyUnset) {
		t.Errorf("Apply must skip unset keys, Get(2) error = %v", err)
	}
}
