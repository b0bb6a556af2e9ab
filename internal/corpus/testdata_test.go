package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// charRow builds a 13-column character row from the fields that matter in tests.
func charRow(movieID, release, dob, gender, height, ethnicity, actor, age string) string {
	return strings.Join([]string{
		movieID, "/m/" + movieID, release, "Char " + actor, dob, gender, height,
		ethnicity, actor, age, "/m/map" + actor, "/m/ch" + actor, "/m/a" + actor,
	}, "\t")
}

func writeFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	body := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
