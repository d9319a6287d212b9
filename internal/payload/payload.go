// Package payload reads the JSON event object a host passes on stdin.
//
// Hosts disagree on field names, so every accessor tries an ordered list of
// candidate paths and returns the first non-empty value.
package payload

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Candidate paths, in lookup order.
var (
	CwdPaths           = []string{"cwd", "workspace.current_dir"}
	ToolInputPaths     = []string{"tool_input", "toolInput", "input"}
	TargetFields       = []string{"file_path", "path", "target_path", "filename"}
	PromptPaths        = []string{"prompt", "userPrompt", "user_prompt", "message", "input.prompt", "input.message"}
	ToolNamePaths      = []string{"tool_name", "toolName", "tool.name", "input.tool_name"}
	SessionPaths       = []string{"session_id", "sessionId"}
	ModelPaths         = []string{"model.display_name", "model.name"}
	ContextRemainPaths = []string{"context_window.remaining_percentage"}
)

// Payload is a parsed event object. The zero value is an empty payload.
type Payload struct {
	raw string
}

// Parse wraps data as a Payload. Anything that is not a JSON object yields an
// empty payload.
func Parse(data []byte) Payload {
	s := strings.TrimSpace(string(data))
	if s == "" || !gjson.Valid(s) || !gjson.Parse(s).IsObject() {
		return Payload{}
	}
	return Payload{raw: s}
}

// Empty reports whether the payload carries no fields.
func (p Payload) Empty() bool {
	return p.raw == ""
}

// Raw returns the original JSON text.
func (p Payload) Raw() string {
	return p.raw
}

// First returns the first candidate path holding a non-empty string value.
func (p Payload) First(paths ...string) string {
	if p.raw == "" {
		return ""
	}
	for _, path := range paths {
		r := gjson.Get(p.raw, path)
		if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
			return r.Str
		}
	}
	return ""
}

// Cwd returns the working directory reported by the host.
func (p Payload) Cwd() string { return p.First(CwdPaths...) }

// Prompt returns the user prompt text.
func (p Payload) Prompt() string { return p.First(PromptPaths...) }

// ToolName returns the name of the tool being invoked.
func (p Payload) ToolName() string { return p.First(ToolNamePaths...) }

// SessionID returns the host session identifier.
func (p Payload) SessionID() string { return p.First(SessionPaths...) }

// Model returns the display name of the model in use.
func (p Payload) Model() string { return p.First(ModelPaths...) }

// TargetPath returns the file path a tool call is about to write. Each tool
// input container is searched for each target field in order.
func (p Payload) TargetPath() string {
	if p.raw == "" {
		return ""
	}
	for _, container := range ToolInputPaths {
		c := gjson.Get(p.raw, container)
		if !c.IsObject() {
			continue
		}
		for _, field := range TargetFields {
			r := c.Get(field)
			if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
				return r.Str
			}
		}
	}
	return ""
}

// ContextRemaining returns the percentage of the context window left.
func (p Payload) ContextRemaining() (float64, bool) {
	if p.raw == "" {
		return 0, false
	}
	for _, path := range ContextRemainPaths {
		r := gjson.Get(p.raw, path)
		switch r.Type {
		case gjson.Number:
			return r.Num, true
		case gjson.String:
			if f := gjson.Parse(r.Str); f.Type == gjson.Number {
				return f.Num, true
			}
		}
	}
	return 0, false
}

// WorkspaceRoot picks the first existing directory among the payload cwd,
// workspace.current_dir, $CLAUDE_PROJECT_DIR and the process working directory.
func (p Payload) WorkspaceRoot(getenv func(string) string, getwd func() (string, error)) string {
	var candidates []string
	for _, path := range CwdPaths {
		candidates = append(candidates, p.First(path))
	}
	if getenv != nil {
		candidates = append(candidates, getenv("CLAUDE_PROJECT_DIR"))
	}
	for _, c := range candidates {
		if isDir(c) {
			return c
		}
	}
	if getwd != nil {
		if wd, err := getwd(); err == nil {
			return wd
		}
	}
	return "."
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
