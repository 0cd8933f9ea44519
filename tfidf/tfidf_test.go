package tfidf

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/metrics"
	"github.com/rushteam/tagrec/store"
)

const eps = 1e-9

// corpus 是测试用的内存 ItemTagDAO。
type corpus struct {
	ids   []int64
	tags  map[int64][]string
	vocab []string
	err   error
}

func (c *corpus) ItemIDs(ctx context.Context) ([]int64, error) {
	return c.ids, nil
}

func (c *corpus) ItemTags(ctx context.Context, itemID int64) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.tags[itemID], nil
}

func (c *corpus) TagVocabulary(ctx context.Context) ([]string, error) {
	if c.vocab != nil {
		return c.vocab, nil
	}
	var out []string
	for _, id := range c.ids {
		for _, t := range c.tags[id] {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func comedyDrama() *corpus {
	return &corpus{
		ids: []int64{1, 2},
		tags: map[int64][]string{
			1: {"comedy", "comedy", "drama"},
			2: {"drama"},
		},
	}
}

func TestNewVocabulary(t *testing.T) {
	v := NewVocabulary([]string{"b", "a", "b", "c"})

	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", v.Len())
	}
	for i, tag := range []string{"b", "a", "c"} {
		id, ok := v.ID(tag)
		if !ok || id != int64(i+1) {
			t.Errorf("ID(%q) = %d, %v, want %d", tag, id, ok, i+1)
		}
		if got, _ := v.Tag(id); got != tag {
			t.Errorf("Tag(%d) = %q, want %q", id, got, tag)
		}
	}
	if _, ok := v.Tag(0); ok {
		t.Error("Tag(0) should not exist")
	}
	if _, ok := v.Tag(4); ok {
		t.Error("Tag(4) should not exist")
	}
	if !slices.Equal(v.IDs(), []int64{1, 2, 3}) {
		t.Errorf("IDs() = %v", v.IDs())
	}
}

func TestBuild_WorkedExample(t *testing.T) {
	b := &ModelBuilder{DAO: comedyDrama(), Workers: 1}
	m, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	comedy, _ := m.Vocabulary().ID("comedy")
	drama, _ := m.Vocabulary().ID("drama")
	if comedy != 1 || drama != 2 {
		t.Fatalf("ids = comedy:%d drama:%d, want 1, 2", comedy, drama)
	}

	if got := m.IDF().GetOr(comedy, -1); got != 0 {
		t.Errorf("idf(comedy) = %v, want 0", got)
	}
	if got := m.IDF().GetOr(drama, -1); math.Abs(got-math.Log10(2)) > eps {
		t.Errorf("idf(drama) = %v, want log10(2)", got)
	}

	a := m.ItemVector(1)
	if !slices.Equal(a.Domain(), []int64{comedy, drama}) {
		t.Errorf("item 1 domain = %v, want [1 2]", a.Domain())
	}
	if got := a.GetOr(comedy, -1); got != 0 {
		t.Errorf("item 1 comedy = %v, want 0", got)
	}
	if got := a.GetOr(drama, -1); math.Abs(got-1) > eps {
		t.Errorf("item 1 drama = %v, want 1", got)
	}

	bv := m.ItemVector(2)
	if !slices.Equal(bv.Domain(), []int64{drama}) {
		t.Errorf("item 2 domain = %v, want [2]", bv.Domain())
	}
	if got := a.Dot(bv) / (a.Norm() * bv.Norm()); math.Abs(got-1) > eps {
		t.Errorf("cosine(A, B) = %v, want 1", got)
	}
}

func TestBuild_Properties(t *testing.T) {
	c := &corpus{
		ids: []int64{10, 20, 30, 40, 50},
		tags: map[int64][]string{
			10: {"space", "space", "robots", "war"},
			20: {"robots", "love"},
			30: {"war", "war", "war", "space"},
			40: {"love"},
			50: nil,
		},
	}
	m, err := (&ModelBuilder{DAO: c, Workers: 2}).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	vocab := m.Vocabulary()
	if vocab.Len() != 4 {
		t.Fatalf("vocabulary size = %d, want 4", vocab.Len())
	}

	// DF 等于携带该标签的物品数
	df := map[string]int{"space": 2, "robots": 2, "war": 2, "love": 2}
	for tag, n := range df {
		id, _ := vocab.ID(tag)
		if got := m.IDF().GetOr(id, -1); math.Abs(got-math.Log10(float64(n))) > eps {
			t.Errorf("idf(%s) = %v, want log10(%d)", tag, got, n)
		}
	}

	for _, id := range c.ids {
		v := m.ItemVector(id)

		var want []int64
		for _, tag := range c.tags[id] {
			tid, _ := vocab.ID(tag)
			want = append(want, tid)
		}
		slices.Sort(want)
		want = slices.Compact(want)
		if !slices.Equal(v.Domain(), want) {
			t.Errorf("item %d domain = %v, want %v", id, v.Domain(), want)
		}

		if len(want) == 0 {
			if v.Size() != 0 {
				t.Errorf("item %d without tags should have empty domain", id)
			}
			continue
		}
		if n := v.Norm(); math.Abs(n-1) > eps {
			t.Errorf("item %d norm = %v, want 1", id, n)
		}
	}

	// 归一化前权重 = 原始计数 * log10(DF)：item 30 中 war:space = 3:1
	war, _ := vocab.ID("war")
	space, _ := vocab.ID("space")
	v := m.ItemVector(30)
	if ratio := v.GetOr(war, 0) / v.GetOr(space, 1); math.Abs(ratio-3) > eps {
		t.Errorf("item 30 war/space = %v, want 3", ratio)
	}

	if !slices.Equal(m.Items(), []int64{10, 20, 30, 40, 50}) {
		t.Errorf("Items() = %v", m.Items())
	}
	if m.ItemVector(999).Size() != 0 {
		t.Error("unknown item should yield empty vector")
	}
}

func TestBuild_AllZeroIDF(t *testing.T) {
	// 每个标签只出现在一个物品上：idf 全为 0，向量保持全 0
	c := &corpus{
		ids:  []int64{1, 2},
		tags: map[int64][]string{1: {"a"}, 2: {"b", "b"}},
	}
	m, err := (&ModelBuilder{DAO: c}).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, id := range c.ids {
		v := m.ItemVector(id)
		if v.Size() != 1 {
			t.Errorf("item %d domain size = %d, want 1", id, v.Size())
		}
		if n := v.Norm(); n != 0 {
			t.Errorf("item %d norm = %v, want 0", id, n)
		}
		v.Each(func(_ int64, w float64) {
			if math.IsNaN(w) {
				t.Errorf("item %d has NaN weight", id)
			}
		})
	}
}

func TestBuild_ParallelMatchesSerial(t *testing.T) {
	c := &corpus{tags: make(map[int64][]string)}
	pool := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i := int64(1); i <= 200; i++ {
		c.ids = append(c.ids, i)
		for j := int64(0); j < i%5+1; j++ {
			c.tags[i] = append(c.tags[i], pool[(i*j+j)%int64(len(pool))])
		}
	}

	ctx := context.Background()
	serial, err := (&ModelBuilder{DAO: c, Workers: 1}).Build(ctx)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := (&ModelBuilder{DAO: c, Workers: 8}).Build(ctx)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range c.ids {
		a, b := serial.ItemVector(id), parallel.ItemVector(id)
		if !slices.Equal(a.Domain(), b.Domain()) {
			t.Fatalf("item %d domain differs: %v vs %v", id, a.Domain(), b.Domain())
		}
		for _, k := range a.Domain() {
			if math.Abs(a.GetOr(k, 0)-b.GetOr(k, 0)) > eps {
				t.Errorf("item %d tag %d differs", id, k)
			}
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("tag missing from vocabulary", func(t *testing.T) {
		c := comedyDrama()
		c.vocab = []string{"comedy"}
		_, err := (&ModelBuilder{DAO: c}).Build(ctx)
		if !core.IsInvalidInput(err) {
			t.Fatalf("Build() error = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("dao failure", func(t *testing.T) {
		boom := errors.New("disk gone")
		c := comedyDrama()
		c.err = boom
		_, err := (&ModelBuilder{DAO: c}).Build(ctx)
		if !core.IsUnavailable(err) {
			t.Fatalf("Build() error = %v, want UNAVAILABLE", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("Build() error should wrap the DAO error")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := (&ModelBuilder{DAO: comedyDrama()}).Build(cctx)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Build() error = %v, want context.Canceled", err)
		}
	})

	t.Run("nil dao", func(t *testing.T) {
		if _, err := (&ModelBuilder{}).Build(ctx); err == nil {
			t.Fatal("Build() expected error")
		}
	})
}

func TestModel_NewTagVector(t *testing.T) {
	m, err := (&ModelBuilder{DAO: comedyDrama()}).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b := m.NewTagVector()
	if b.Size() != 2 || b.Len() != 2 {
		t.Errorf("NewTagVector(): Size() = %d, Len() = %d, want 2, 2", b.Size(), b.Len())
	}
	if b.Norm() != 0 {
		t.Errorf("NewTagVector() should be all zero")
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		n, parts int
		want     [][2]int
	}{
		{0, 4, nil},
		{3, 8, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{10, 3, [][2]int{{0, 4}, {4, 8}, {8, 10}}},
		{4, 1, [][2]int{{0, 4}}},
	}
	for _, tt := range tests {
		if got := chunks(tt.n, tt.parts); !slices.Equal(got, tt.want) {
			t.Errorf("chunks(%d, %d) = %v, want %v", tt.n, tt.parts, got, tt.want)
		}
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	c := comedyDrama()
	c.ids = append(c.ids, 3) // 无标签物品
	m, err := (&ModelBuilder{DAO: c}).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !slices.Equal(got.Vocabulary().Tags(), m.Vocabulary().Tags()) {
		t.Errorf("tags = %v, want %v", got.Vocabulary().Tags(), m.Vocabulary().Tags())
	}
	if !slices.Equal(got.Items(), m.Items()) {
		t.Errorf("items = %v, want %v", got.Items(), m.Items())
	}
	for _, id := range m.Items() {
		a, b := m.ItemVector(id), got.ItemVector(id)
		if !slices.Equal(a.Domain(), b.Domain()) {
			t.Errorf("item %d domain = %v, want %v", id, b.Domain(), a.Domain())
		}
		if math.Abs(a.Norm()-b.Norm()) > eps {
			t.Errorf("item %d norm = %v, want %v", id, b.Norm(), a.Norm())
		}
	}
	if got.Fingerprint() == "" || got.Fingerprint() != m.Fingerprint() {
		t.Errorf("fingerprint = %q, want %q", got.Fingerprint(), m.Fingerprint())
	}
	if !got.HasItem(3) || got.ItemVector(3).Size() != 0 {
		t.Error("tag-less item should survive round trip with empty domain")
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"wrong version", `{"version":99,"tags":[],"idf":[],"items":[]}`},
		{"idf length", `{"version":2,"tags":["a"],"idf":[],"items":[]}`},
		{"duplicate tag", `{"version":2,"tags":["a","a"],"idf":[0,0],"items":[]}`},
		{"unknown tag id", `{"version":2,"tags":["a"],"idf":[0],"items":[{"id":1,"tags":[2],"weights":[1]}]}`},
		{"weights length", `{"version":2,"tags":["a"],"idf":[0],"items":[{"id":1,"tags":[1],"weights":[]}]}`},
		{"duplicate item", `{"version":2,"tags":["a"],"idf":[0],"items":[{"id":1,"tags":[],"weights":[]},{"id":1,"tags":[],"weights":[]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !core.IsInvalidInput(err) {
				t.Errorf("Decode() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLoadOrBuild(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	b := &ModelBuilder{DAO: comedyDrama()}

	m, loaded, err := LoadOrBuild(ctx, s, "", b, false)
	if err != nil || loaded {
		t.Fatalf("first LoadOrBuild() = loaded %v, err %v; want built", loaded, err)
	}
	if m.Len() != 2 {
		t.Errorf("model items = %d, want 2", m.Len())
	}

	hits := testutil.ToFloat64(metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotHit))
	got, loaded, err := LoadOrBuild(ctx, s, "", b, false)
	if err != nil || !loaded {
		t.Fatalf("second LoadOrBuild() = loaded %v, err %v; want snapshot", loaded, err)
	}
	if got.Fingerprint() != m.Fingerprint() {
		t.Errorf("snapshot fingerprint = %q, want %q", got.Fingerprint(), m.Fingerprint())
	}
	if d := testutil.ToFloat64(metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotHit)) - hits; d != 1 {
		t.Errorf("snapshot hits delta = %v, want 1", d)
	}

	_, loaded, err = LoadOrBuild(ctx, s, "", b, true)
	if err != nil || loaded {
		t.Fatalf("rebuild LoadOrBuild() = loaded %v, err %v; want built", loaded, err)
	}

	// 损坏的快照会触发重新构建并被覆盖
	_ = s.Set(ctx, DefaultSnapshotKey, []byte("garbage"))
	_, loaded, err = LoadOrBuild(ctx, s, "", b, false)
	if err != nil || loaded {
		t.Fatalf("LoadOrBuild() over corrupt snapshot = loaded %v, err %v", loaded, err)
	}
	if _, err := LoadModel(ctx, s, DefaultSnapshotKey); err != nil {
		t.Errorf("snapshot not rewritten: %v", err)
	}

	failing := comedyDrama()
	failing.err = errors.New("disk gone")
	if _, _, err := LoadOrBuild(ctx, s, "", &ModelBuilder{DAO: failing}, false); !core.IsUnavailable(err) {
		t.Errorf("LoadOrBuild() with failing DAO error = %v, want UNAVAILABLE", err)
	}
}

func TestLoadOrBuild_DataChanged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "model.db")

	s, err := store.NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	before := &corpus{
		ids:  []int64{1, 2},
		tags: map[int64][]string{1: {"drama"}, 2: {"drama"}},
	}
	if _, _, err := LoadOrBuild(ctx, s, "", &ModelBuilder{DAO: before}, false); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = store.NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	after := &corpus{
		ids:  []int64{1, 2, 3},
		tags: map[int64][]string{1: {"comedy", "comedy"}, 2: {"drama"}, 3: {"drama"}},
	}
	m, loaded, err := LoadOrBuild(ctx, s, "", &ModelBuilder{DAO: after}, false)
	if err != nil {
		t.Fatal(err)
	}
	if loaded {
		t.Fatal("snapshot of the old corpus was reused after the data changed")
	}
	if !m.HasItem(3) {
		t.Errorf("items = %v, want item 3", m.Items())
	}
	if _, ok := m.Vocabulary().ID("comedy"); !ok {
		t.Errorf("vocabulary = %v, want comedy", m.Vocabulary().Tags())
	}

	// 重建后的快照与新语料一致，再次加载命中
	if _, loaded, err := LoadOrBuild(ctx, s, "", &ModelBuilder{DAO: after}, false); err != nil || !loaded {
		t.Errorf("LoadOrBuild() after rebuild = loaded %v, err %v; want snapshot", loaded, err)
	}
}

func TestModelBuilder_Fingerprint(t *testing.T) {
	ctx := context.Background()
	fp := func(c *corpus) string {
		t.Helper()
		got, err := (&ModelBuilder{DAO: c}).Fingerprint(ctx)
		if err != nil {
			t.Fatal(err)
		}
		return got
	}

	base := fp(comedyDrama())

	m, err := (&ModelBuilder{DAO: comedyDrama(), Workers: 2}).Build(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m.Fingerprint() != base {
		t.Errorf("Build() fingerprint = %q, want %q", m.Fingerprint(), base)
	}

	reordered := comedyDrama()
	reordered.ids = []int64{2, 1}
	reordered.vocab = []string{"comedy", "drama"}
	reordered.tags[1] = []string{"drama", "comedy", "comedy"}
	if got := fp(reordered); got != base {
		t.Errorf("order-only change: fingerprint = %q, want %q", got, base)
	}

	tests := []struct {
		name   string
		mutate func(c *corpus)
	}{
		{"retagged", func(c *corpus) { c.tags[2] = []string{"comedy"} }},
		{"repeat count", func(c *corpus) { c.tags[1] = []string{"comedy", "drama"} }},
		{"new item", func(c *corpus) { c.ids = append(c.ids, 3) }},
		{"vocabulary order", func(c *corpus) { c.vocab = []string{"drama", "comedy"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := comedyDrama()
			tt.mutate(c)
			if got := fp(c); got == base {
				t.Errorf("fingerprint unchanged: %q", got)
			}
		})
	}
}
