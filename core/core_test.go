package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name           string
		existing, next Label
		want           Label
	}{
		{"empty existing", Label{}, Label{Value: "a", Source: "recall"}, Label{Value: "a", Source: "recall"}},
		{"empty incoming", Label{Value: "a", Source: "recall"}, Label{}, Label{Value: "a", Source: "recall"}},
		{"same source", Label{Value: "a", Source: "recall"}, Label{Value: "b", Source: "recall"}, Label{Value: "a|b", Source: "recall"}},
		{"different source", Label{Value: "a", Source: "recall"}, Label{Value: "b", Source: "rank"}, Label{Value: "a|b", Source: "recall,rank"}},
		{"incoming without source", Label{Value: "a", Source: "recall"}, Label{Value: "b"}, Label{Value: "a|b", Source: "recall"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.next); got != tt.want {
				t.Errorf("MergeLabel() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestItem_PutLabel(t *testing.T) {
	it := &Item{ID: 1}
	it.PutLabel("recall_source", Label{Value: "list", Source: "recall"})
	it.PutLabel("recall_source", Label{Value: "catalog", Source: "recall"})

	got, ok := it.GetLabel("recall_source")
	if !ok || got.Value != "list|catalog" {
		t.Errorf("GetLabel() = %+v, %v, want list|catalog", got, ok)
	}
	if _, ok := it.GetLabel("missing"); ok {
		t.Error("GetLabel(missing) ok = true")
	}
}

func TestRecommendContext(t *testing.T) {
	a, b := NewRecommendContext(7), NewRecommendContext(7)
	if a.RequestID == "" || a.RequestID == b.RequestID {
		t.Errorf("RequestID = %q, %q, want distinct non-empty ids", a.RequestID, b.RequestID)
	}
	a.PutLabel("exp", Label{Value: "x"})
	if lbl, ok := a.GetLabel("exp"); !ok || lbl.Value != "x" {
		t.Errorf("GetLabel(exp) = %+v, %v", lbl, ok)
	}
}

func TestRating(t *testing.T) {
	r := NewRating(1, 2, 4.5)
	if v, ok := r.Value(); !ok || v != 4.5 || r.IsUnrated() {
		t.Errorf("rating Value() = %v, %v", v, ok)
	}
	u := NewUnrating(1, 2)
	if _, ok := u.Value(); ok || !u.IsUnrated() {
		t.Error("unrating carries a value")
	}
}

func TestDomainError(t *testing.T) {
	cause := errors.New("disk gone")
	err := fmt.Errorf("load: %w", WrapDomainError(ModuleDataset, ErrorCodeUnavailable, "open ratings.csv", cause))

	if !IsUnavailable(err) || IsNotFound(err) || IsInvalidInput(err) {
		t.Errorf("code helpers mismatch for %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	de := GetDomainError(err)
	if de == nil || de.Module != ModuleDataset {
		t.Fatalf("GetDomainError() = %v", de)
	}
	if want := "dataset: open ratings.csv: disk gone"; de.Error() != want {
		t.Errorf("Error() = %q, want %q", de.Error(), want)
	}
	if IsDomainError(cause) {
		t.Error("IsDomainError(plain error) = true")
	}
}

func TestIsStoreNotFound(t *testing.T) {
	if !IsStoreNotFound(fmt.Errorf("get: %w", ErrStoreNotFound)) {
		t.Error("wrapped ErrStoreNotFound not detected")
	}
	if IsStoreNotFound(NewDomainError(ModuleDataset, ErrorCodeNotFound, "no item")) {
		t.Error("dataset NOT_FOUND treated as store miss")
	}
}
