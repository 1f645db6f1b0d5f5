package cli

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/lehmer/pkg/errors"
)

// parseItems turns command arguments into an item list. Items may be given
// as separate arguments ("A B C") or as one comma-separated argument
// ("A,B,C"). No arguments yields an empty, non-nil list.
func parseItems(args []string) []string {
	if len(args) == 1 && strings.Contains(args[0], ",") {
		return parseList(args[0])
	}
	items := make([]string, len(args))
	for i, a := range args {
		items[i] = strings.TrimSpace(a)
	}
	return items
}

// parseList splits a comma-separated list, trimming spaces around each
// element. An empty string yields an empty list.
func parseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// parseRank parses a decimal rank. Negative values parse; the engine
// decides whether they are in range.
func parseRank(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid rank %q", s)
	}
	return v, nil
}

// parseN parses the argument of the factorial command.
func parseN(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid number %q", s)
	}
	return v, nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
