// Package goldie configures golden file assertions the same way for every package.
// Fixtures live in ./fixtures next to the test and carry the .golden suffix.
package goldie

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jensneuse/diffview"
	"github.com/sebdah/goldie/v2"
)

func New(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("fixtures"),
		goldie.WithNameSuffix(".golden"),
		goldie.WithDiffEngine(goldie.ClassicDiff),
	)
}

// Assert compares actual with the fixture name. Windows line endings are normalized first.
func Assert(t *testing.T, name string, actual []byte) {
	t.Helper()

	New(t).Assert(t, name, bytes.ReplaceAll(actual, []byte("\r\n"), []byte("\n")))
}

// AssertWithDiffView runs Assert and opens the diff viewer when PQID_DIFFVIEW is set
// and the fixture does not match.
func AssertWithDiffView(t *testing.T, name string, actual []byte) {
	t.Helper()

	Assert(t, name, actual)
	if !t.Failed() || os.Getenv("PQID_DIFFVIEW") == "" {
		return
	}

	fixture, err := os.ReadFile(filepath.Join("fixtures", name+".golden"))
	if err != nil {
		t.Fatal(err)
	}

	diffview.NewGoland().DiffViewBytes(name, fixture, actual)
}
