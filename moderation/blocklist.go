package moderation

import (
	"bufio"
	"bytes"
	"strings"

	_ "embed"
)

//go:embed blocklist.txt
var blocklist []byte

// DefaultWords returns the embedded blocklist, one word per line.
// Blank lines and '#' comments are skipped.
func DefaultWords() []string {
	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(blocklist))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
