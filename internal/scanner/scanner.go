// Package scanner implements the on-disk fallback the counter backend
// falls back to on a cache miss: counting substring occurrences of a word,
// line by line, in a text file.
package scanner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Count opens the file at path and sums strings.Count(line, word) over
// every line. Matching is substring-based, not tokenized - "cat" inside
// "category" counts - matching the reference scanner this is grounded on.
func Count(ctx context.Context, word, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("scanner: open %s: %w", path, err)
	}
	defer f.Close()

	var total int64
	scan := bufio.NewScanner(f)
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scan.Scan() {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}
		total += int64(strings.Count(scan.Text(), word))
	}
	if err := scan.Err(); err != nil {
		return 0, fmt.Errorf("scanner: read %s: %w", path, err)
	}
	return total, nil
}
