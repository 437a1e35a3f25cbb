package cli

import (
	"os"
	"sync"
)

// cleanupList tracks paths created by the current run so they can be
// removed if the run fails or is interrupted.
type cleanupList struct {
	mu    sync.Mutex
	paths []string
}

func (c *cleanupList) register(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

// finalize drops path from the list once it is complete.
func (c *cleanupList) finalize(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.paths[:0]
	for _, p := range c.paths {
		if p != path {
			out = append(out, p)
		}
	}
	c.paths = out
}

// run removes every registered path that exists and returns the ones it
// removed, newest first.
func (c *cleanupList) run() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed []string
	for i := len(c.paths) - 1; i >= 0; i-- {
		p := c.paths[i]
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := os.RemoveAll(p); err == nil {
			removed = append(removed, p)
		}
	}
	c.paths = nil
	return removed
}
