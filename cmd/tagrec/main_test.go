package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/tagrec/core"
)

// setupData 写入一份小数据集，并通过环境变量指向它。
func setupData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	files := map[string]string{
		"titles.csv":  "1,Alpha\n2,Beta\n3,Gamma\n4,Delta\n",
		"tags.csv":    "1,drama\n1,comedy\n2,drama\n3,drama\n3,horror\n4,horror\n4,comedy\n",
		"users.csv":   "7,alice\n8,bob\n",
		"ratings.csv": "7,1,5\n7,4,1\n8,2,3\n8,3,3\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv("TAGREC_DATA_TITLES", filepath.Join(dir, "titles.csv"))
	t.Setenv("TAGREC_DATA_TAGS", filepath.Join(dir, "tags.csv"))
	t.Setenv("TAGREC_DATA_USERS", filepath.Join(dir, "users.csv"))
	t.Setenv("TAGREC_DATA_RATINGS", filepath.Join(dir, "ratings.csv"))
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRecommend(t *testing.T) {
	setupData(t)

	out, logs, err := execute(t, "recommend", "--log-format", "json", "-n", "1", "7", "alice", "abc", "9")
	if err != nil {
		t.Fatalf("recommend error = %v\n%s", err, logs)
	}

	blocks := strings.Count(out, "recommendations for user ")
	if blocks != 3 {
		t.Fatalf("got %d user blocks, want 3:\n%s", blocks, out)
	}
	if !strings.HasPrefix(out, "recommendations for user 7:\n  ") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.HasSuffix(out, "recommendations for user 9:\n") {
		t.Errorf("unknown user 9 should print an empty block:\n%s", out)
	}
	if !strings.Contains(logs, "cannot parse user") {
		t.Errorf("missing parse error log:\n%s", logs)
	}
	if !strings.Contains(logs, "no recommendations for user, do they exist?") {
		t.Errorf("missing empty-result warning:\n%s", logs)
	}
	if strings.Contains(out, "  1: ") || strings.Contains(out, "  4: ") {
		t.Errorf("rated items must not be recommended:\n%s", out)
	}
}

func TestRecommend_InvalidTop(t *testing.T) {
	setupData(t)

	out, _, err := execute(t, "recommend", "--top=-1", "7")
	if !core.IsInvalidInput(err) {
		t.Fatalf("recommend --top=-1 error = %v, want INVALID_INPUT", err)
	}
	if out != "" {
		t.Errorf("no recommendations should be printed, got:\n%s", out)
	}
}

func TestScore(t *testing.T) {
	setupData(t)

	// bob 的评分相同：画像为零向量，所有物品无分数
	out, _, err := execute(t, "score", "bob", "1", "4")
	if err != nil {
		t.Fatal(err)
	}
	want := "scores for user 8:\n  1: no score\n  4: no score\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if _, _, err := execute(t, "score", "nobody", "1"); err == nil {
		t.Error("unknown user name should fail")
	}
}

func TestBuildAndInspect(t *testing.T) {
	dir := setupData(t)
	storePath := filepath.Join(dir, "model.db")

	out, _, err := execute(t, "build", "--store", "bolt", "--store-path", storePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "model: 4 items, 3 tags (store bolt") {
		t.Errorf("build output = %q", out)
	}

	out, _, err = execute(t, "inspect", "--store", "bolt", "--store-path", storePath, "--item", "2", "--tag", "drama")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"items: 4\n", "tags: 3\n", "item 2: Beta\n", "  drama: 1.0000\n", `tag "drama": id 1, idf 0.4771`} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	if _, _, err := execute(t, "inspect", "--tag", "western"); err == nil {
		t.Error("unknown tag should fail")
	}
}
