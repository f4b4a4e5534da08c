package queryid

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/wundergraph/persisted-query-ids/pkg/fragments"
)

// Canonicalize prints every fragment of closure in discovery order, each followed by a
// newline, and appends the printed operation.
func Canonicalize(operation fragments.Definition, closure *fragments.Closure) (string, error) {
	var builder strings.Builder

	if closure != nil {
		for _, fragment := range closure.Definitions() {
			printed, err := fragment.Print()
			if err != nil {
				return "", errors.Wrapf(err, "printing fragment %s", fragment.Name())
			}
			builder.WriteString(printed)
			builder.WriteString("\n")
		}
	}

	printed, err := operation.Print()
	if err != nil {
		return "", errors.Wrapf(err, "printing operation %s", operation.Name())
	}
	builder.WriteString(printed)

	return builder.String(), nil
}
