package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/tagrec/core"
)

func TestTopNNode(t *testing.T) {
	mk := func(n int) []*core.Item {
		out := make([]*core.Item, n)
		for i := range out {
			out[i] = core.NewItem(int64(i + 1))
		}
		return out
	}

	tests := []struct {
		name string
		n    int
		in   int
		want int
	}{
		{"truncate", 5, 8, 5},
		{"fewer than n", 5, 3, 3},
		{"no limit", 0, 8, 8},
		{"negative", -1, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), nil, mk(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
			if len(out) > 0 && out[0].ID != 1 {
				t.Errorf("order changed: first = %d", out[0].ID)
			}
		})
	}
}
