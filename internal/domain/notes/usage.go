// Package notes extracts run instructions from a benchmark notes document.
package notes

import (
	"regexp"
	"strings"
)

// runMarker identifies the primary run command among bash blocks.
const runMarker = "inspect eval"

var (
	bashBlock   = regexp.MustCompile("(?s)```bash\\r?\\n(.*?)```")
	pythonBlock = regexp.MustCompile("(?s)```python\\r?\\n(.*?)```")
)

// Usage holds the runnable examples found in a notes document.
type Usage struct {
	RunCommand  string   `json:"runCommand,omitempty"`
	PythonUsage string   `json:"pythonUsage,omitempty"`
	BashBlocks  []string `json:"-"`
}

// IsZero reports whether no examples were found.
func (u Usage) IsZero() bool {
	return u.RunCommand == "" && u.PythonUsage == "" && len(u.BashBlocks) == 0
}

// Parse scans fenced code blocks. The run command is the first bash block
// mentioning "inspect eval"; the Python usage is the first python block.
func Parse(doc string) Usage {
	var u Usage
	for _, m := range bashBlock.FindAllStringSubmatch(doc, -1) {
		block := strings.TrimSpace(m[1])
		u.BashBlocks = append(u.BashBlocks, block)
		if u.RunCommand == "" && strings.Contains(block, runMarker) {
			u.RunCommand = block
		}
	}
	if m := pythonBlock.FindStringSubmatch(doc); m != nil {
		u.PythonUsage = strings.TrimSpace(m[1])
	}
	return u
}
