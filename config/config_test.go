package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/dataset"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/tfidf"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.Recommend.TopN)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Model.SnapshotKey != tfidf.DefaultSnapshotKey {
		t.Errorf("SnapshotKey = %q", cfg.Model.SnapshotKey)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagrec.yaml")
	content := `
data:
  ratings: /tmp/r.csv
store:
  driver: bolt
  path: /tmp/tagrec.db
recommend:
  top_n: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TAGREC_RECOMMEND_TOP_N", "3")
	t.Setenv("TAGREC_MODEL_SNAPSHOT_KEY", "custom")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data.Ratings != "/tmp/r.csv" {
		t.Errorf("Data.Ratings = %q", cfg.Data.Ratings)
	}
	if cfg.Data.Titles != "data/movie-titles.csv" {
		t.Errorf("Data.Titles default lost: %q", cfg.Data.Titles)
	}
	if cfg.Store.Driver != "bolt" || cfg.Store.Path != "/tmp/tagrec.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Recommend.TopN != 3 {
		t.Errorf("TopN = %d, want env override 3", cfg.Recommend.TopN)
	}
	if cfg.Model.SnapshotKey != "custom" {
		t.Errorf("SnapshotKey = %q, want custom", cfg.Model.SnapshotKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("store:\n  driver: etcd\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !core.IsInvalidInput(err) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"TAGREC_DATA_RATINGS":       "data.ratings",
		"TAGREC_MODEL_SNAPSHOT_KEY": "model.snapshot_key",
		"TAGREC_LOG_LEVEL":          "log.level",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func testEnv(t *testing.T) *Env {
	t.Helper()
	items := dataset.NewItemStore()
	for id := int64(1); id <= 4; id++ {
		items.PutItem(id, "")
	}
	items.AddTags(1, "drama", "comedy")
	items.AddTags(2, "drama")
	items.AddTags(3, "drama", "horror")
	items.AddTags(4, "horror", "comedy")

	ratings := dataset.NewRatingStore()
	ratings.Add(core.NewRating(7, 1, 5))
	ratings.Add(core.NewRating(7, 4, 1))

	m, err := (&tfidf.ModelBuilder{DAO: items}).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return &Env{Model: m, Items: items, Ratings: ratings}
}

func TestDefaultPipeline(t *testing.T) {
	cfg := DefaultPipelineConfig(1)
	if err := ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error = %v", err)
	}

	p, err := cfg.BuildPipeline(NodeFactory(testEnv(t)))
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	out, err := p.Run(context.Background(), core.NewRecommendContext(7), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].ID == 1 || out[0].ID == 4 {
		t.Errorf("rated item %d recommended", out[0].ID)
	}
}

func TestPipelineFromYAML(t *testing.T) {
	data := []byte(`
pipeline:
  name: custom
  nodes:
    - type: recall.fanout
      config:
        sources:
          - type: list
            ids: [3, 99]
          - type: catalog
    - type: filter.rated
    - type: filter.blacklist
      config:
        item_ids: [2]
    - type: rank.tfidf
    - type: filter.expr
      config:
        expr: "item.score > -1.0"
        keep: true
    - type: rerank.topn
      config:
        n: 5
`)
	cfg, err := pipeline.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		t.Fatal(err)
	}
	p, err := cfg.BuildPipeline(NodeFactory(testEnv(t)))
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), core.NewRecommendContext(7), nil)
	if err != nil {
		t.Fatal(err)
	}

	var ids []int64
	for _, it := range out {
		ids = append(ids, it.ID)
	}
	if !slices.Equal(ids, []int64{3}) {
		t.Errorf("ids = %v, want [3]", ids)
	}
}

func TestValidatePipelineConfig_Unknown(t *testing.T) {
	cfg, err := pipeline.Parse([]byte("pipeline:\n  nodes:\n    - type: rank.lr\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidatePipelineConfig(cfg); err == nil {
		t.Error("ValidatePipelineConfig() should reject unknown node types")
	}
	if !slices.Contains(SupportedTypes(), "rank.tfidf") {
		t.Errorf("SupportedTypes() = %v", SupportedTypes())
	}
}

func TestBuildTFIDFNode_MissingModel(t *testing.T) {
	if _, err := BuildTFIDFNode(&Env{}, nil); !core.IsInvalidInput(err) {
		t.Errorf("BuildTFIDFNode() error = %v, want INVALID_INPUT", err)
	}
}
