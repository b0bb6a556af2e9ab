package cmd

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func charLine(movieID, release, dob, gender, height, actor, age string) string {
	return strings.Join([]string{
		movieID, "/m/" + movieID, release, "Char " + actor, dob, gender, height,
		"", actor, age, "/m/map" + actor, "/m/ch" + actor, "/m/a" + actor,
	}, "\t")
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// setupCorpus isolates HOME and writes a small corpus, returning its directory.
func setupCorpus(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MOVIECORPUS_DATASET_URL", "http://127.0.0.1:1/MovieSummaries.tar.gz")
	dir := filepath.Join(home, "data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeLines(t, filepath.Join(dir, corpus.CharacterFile),
		charLine("100", "1995-03-01", "1958-08-26", "F", "1.62", "Ana", "36"),
		charLine("100", "1995-03-01", "1970", "M", "1.80", "Ben", "25"),
		charLine("100", "1995-03-01", "1960-01-02", "M", "tall", "Cy", ""),
		charLine("200", "2000", "1961-01", "F", "1.70", "Di", "39"),
	)
	writeLines(t, filepath.Join(dir, corpus.MovieFile),
		"100\t/m/100\tTrench Days\t1995-03-01\t\t110\t{}\t{}\t{\"/m/a\": \"Drama\", \"/m/b\": \"War film\"}",
		"200\t/m/200\tLaugh Riot\t2000\t1000000\t95\t{}\t{}\t{\"/m/c\": \"Comedy\"}",
	)
	writeLines(t, filepath.Join(dir, corpus.SummaryFile),
		"100\tSoldiers hold a trench through one long winter.",
		"200\tTwo clowns open a bakery.",
	)
	return dir
}

func TestCLI_TypesJSON(t *testing.T) {
	dir := setupCorpus(t)
	out := runCmd(t, "--data-dir", dir, "--format", "json", "types", "-n", "5")
	var freq analysis.Frequency
	if err := json.Unmarshal([]byte(out), &freq); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(freq.Items) != 3 || freq.Items[0].Value != "Drama" || freq.Total != 3 {
		t.Fatalf("unexpected frequency: %+v", freq)
	}
}

func TestCLI_StatisticsCommands(t *testing.T) {
	dir := setupCorpus(t)
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"actors"}, "credited characters"},
		{[]string{"heights", "--gender", "F"}, "2 rows included"},
		{[]string{"releases", "--genre", "comedy"}, "2000"},
		{[]string{"births", "--by", "month"}, "January"},
		{[]string{"ages", "--format", "markdown"}, "## Actor age at release"},
		{[]string{"movie", "100"}, "Trench Days"},
		{[]string{"types", "--by", "gender"}, "gender values"},
	}
	for _, tc := range cases {
		t.Run(tc.args[0], func(t *testing.T) {
			out := runCmd(t, append([]string{"--data-dir", dir}, tc.args...)...)
			if !strings.Contains(out, tc.want) {
				t.Fatalf("output of %v missing %q:\n%s", tc.args, tc.want, out)
			}
		})
	}
}

func TestCLI_InvalidHeightFilterFallsBack(t *testing.T) {
	dir := setupCorpus(t)
	out, errOut, err := execute(t, "--data-dir", dir, "heights", "--min", "2", "--max", "1")
	if err != nil {
		t.Fatalf("heights should recover from a bad filter: %v", err)
	}
	if !strings.Contains(errOut, "⚠") || !strings.Contains(out, "3 rows included") {
		t.Fatalf("expected warning and unfiltered view\nstdout: %s\nstderr: %s", out, errOut)
	}
}

func TestCLI_HeightsIgnoresOutliers(t *testing.T) {
	dir := setupCorpus(t)
	writeLines(t, filepath.Join(dir, corpus.CharacterFile),
		charLine("100", "1995-03-01", "1958-08-26", "F", "1.62", "Ana", "36"),
		charLine("100", "1995-03-01", "1970", "M", "1.80", "Ben", "25"),
		charLine("200", "2000", "1961-01", "M", "510", "Ed", "39"),
	)
	out := runCmd(t, "--data-dir", dir, "--format", "json", "heights", "--bins", "4")
	var got struct {
		Included int                     `json:"included"`
		Filtered int                     `json:"filtered"`
		Bins     []analysis.HistogramBin `json:"bins"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Included != 2 || got.Filtered != 1 || len(got.Bins) != 4 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.Bins[0].Lo != 1.62 || got.Bins[3].Hi != 1.80 || got.Bins[0].Count != 1 || got.Bins[3].Count != 1 {
		t.Fatalf("bins should span 1.62-1.80: %+v", got.Bins)
	}
}

func TestCLI_SchemaErrorIsFatal(t *testing.T) {
	dir := setupCorpus(t)
	writeLines(t, filepath.Join(dir, corpus.CharacterFile), strings.Repeat("x\t", 11)+"x")
	_, _, err := execute(t, "--data-dir", dir, "actors")
	var se *corpus.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestCLI_MissingDatasetFailsWhenDownloadFails(t *testing.T) {
	setupCorpus(t)
	_, _, err := execute(t, "--data-dir", t.TempDir(), "--http-timeout", "2", "ages")
	var dle *corpus.DataLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("expected DataLoadError, got %v", err)
	}
}

func TestCLI_ReportWritesFile(t *testing.T) {
	dir := setupCorpus(t)
	path := filepath.Join(t.TempDir(), "report.md")
	out := runCmd(t, "--data-dir", dir, "report", "-o", path)
	if !strings.Contains(out, "✓ Wrote report") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, section := range []string{"[DATASET SUMMARY]", "[HEIGHT DISTRIBUTION]", "[TOP GENRE VALUES]"} {
		if !strings.Contains(string(b), section) {
			t.Fatalf("report missing %s:\n%s", section, b)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	setupCorpus(t)
	runCmd(t, "config", "set", "top_n", "5")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "top_n: 5") {
		t.Fatalf("config show did not reflect saved value:\n%s", out)
	}
	if _, _, err := execute(t, "config", "set", "default_provider", "carrier-pigeon"); err == nil {
		t.Fatalf("expected invalid provider error")
	}
}

func newOllamaStub(t *testing.T, reply string) string {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": reply},
			"done":    true,
		})
	})}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return "http://" + ln.Addr().String()
}

func decodeClassify(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return m
}

func TestCLI_ClassifyMatchesStoredGenres(t *testing.T) {
	dir := setupCorpus(t)
	host := newOllamaStub(t, "<think>could be a comedy</think>\nWar, Drama")
	out := runCmd(t, "--data-dir", dir, "--format", "json", "classify", "--movie-id", "100", "--provider", "ollama", "--ollama-host", host)
	m := decodeClassify(t, out)
	res := m["result"].(map[string]any)
	if res["label"] != "WAR" || res["outcome"] != "classified" {
		t.Fatalf("unexpected result: %v", res)
	}
	if v := m["comparison"].(map[string]any)["verdict"]; v != "match" {
		t.Fatalf("verdict = %v", v)
	}
}

func TestCLI_ClassifyUnreachableDegrades(t *testing.T) {
	dir := setupCorpus(t)
	out, errOut, err := execute(t, "--data-dir", dir, "classify", "--movie-id", "200", "--provider", "ollama", "--ollama-host", "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("classification failure must not abort: %v", err)
	}
	if !strings.Contains(out, "UNCLASSIFIED") || !strings.Contains(errOut, "ollama serve") {
		t.Fatalf("expected UNCLASSIFIED with hint\nstdout: %s\nstderr: %s", out, errOut)
	}
}
