package core

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ReadingLines loads a newline-separated list. Blank lines are skipped and
// entries are otherwise kept verbatim, so payloads may carry spaces.
func ReadingLines(filename string) ([]string, error) {
	path, err := homedir.Expand(filename)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", filename, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list %s: %w", filename, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list %s: %w", filename, err)
	}
	return lines, nil
}
