package runs

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// SubagentStatus is the state a subagent reports in its status.json.
type SubagentStatus string

const (
	StatusUnknown SubagentStatus = "unknown"
	StatusRunning SubagentStatus = "running"
	StatusBlocked SubagentStatus = "blocked"
	StatusDone    SubagentStatus = "done"
)

// ParseStatus maps a free-form status value onto a SubagentStatus.
// Comparison is case-insensitive.
func ParseStatus(s string) SubagentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blocked":
		return StatusBlocked
	case "done", "complete", "completed", "success", "succeeded", "pass", "passed":
		return StatusDone
	case "running", "in_progress", "in-progress", "started", "pending":
		return StatusRunning
	default:
		return StatusUnknown
	}
}

// readStatus reads the status field of a status document. Comments and
// trailing commas are tolerated. Missing or unparseable documents report
// StatusUnknown.
func readStatus(path string) SubagentStatus {
	data, err := os.ReadFile(path)
	if err != nil {
		return StatusUnknown
	}
	doc := jsonc.ToJSON(data)
	if !gjson.ValidBytes(doc) {
		return StatusUnknown
	}
	status := gjson.GetBytes(doc, "status")
	if status.Type != gjson.String {
		return StatusUnknown
	}
	return ParseStatus(status.Str)
}
