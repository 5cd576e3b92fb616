package quotes

import (
	_ "embed"
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
)

//go:embed quotes.txt
var bundledQuotes string

// ErrNoQuotes indicates that no usable quote lines were found in any source.
var ErrNoQuotes = errors.New("no quotes available")

// Collection holds a set of quotes and hands them out in random order
// without repeating until the whole set has been seen.
type Collection struct {
	mu        sync.Mutex
	quotes    []string
	remaining []int
	rng       *rand.Rand
	source    string
}

// LoadBundled builds a collection from the embedded quote file.
func LoadBundled() (*Collection, error) {
	lines := parseLines(strings.NewReader(bundledQuotes))
	if len(lines) == 0 {
		return nil, ErrNoQuotes
	}
	return newCollection(lines, "bundled"), nil
}

// Load builds a collection from the user quote file at path. An empty path,
// a missing file, or a file with no usable lines falls back to the bundled
// collection.
func Load(path string) (*Collection, error) {
	if strings.TrimSpace(path) == "" {
		return LoadBundled()
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return LoadBundled()
		}
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer file.Close()

	lines := parseLines(file)
	if len(lines) == 0 {
		return LoadBundled()
	}
	return newCollection(lines, path), nil
}

func newCollection(lines []string, source string) *Collection {
	return &Collection{
		quotes: lines,
		rng:    rand.New(rand.NewSource(rand.Int63())),
		source: source,
	}
}

func parseLines(r io.Reader) []string {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Random returns a quote chosen uniformly from the lines not yet handed out
// in the current cycle. When the cycle is exhausted it starts over.
func (c *Collection) Random() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.quotes) == 0 {
		return ""
	}
	if len(c.remaining) == 0 {
		c.remaining = make([]int, len(c.quotes))
		for i := range c.remaining {
			c.remaining[i] = i
		}
	}
	pick := c.rng.Intn(len(c.remaining))
	idx := c.remaining[pick]
	c.remaining[pick] = c.remaining[len(c.remaining)-1]
	c.remaining = c.remaining[:len(c.remaining)-1]
	return c.quotes[idx]
}

// Count returns the number of quotes in the collection.
func (c *Collection) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.quotes)
}

// Source describes where the collection was loaded from, for diagnostics.
func (c *Collection) Source() string {
	return c.source
}
