package guard

import (
	"regexp"
	"strings"

	"github.com/alanmeadows/spwguard/internal/report"
)

// CommandPrefix introduces a workflow slash command in a prompt.
const CommandPrefix = "/spw:"

var (
	commandRe = regexp.MustCompile(`(?i)^/spw:([a-z-]+)(?:\s+(.*))?$`)
	tokenRe   = regexp.MustCompile(`"[^"]*"|'[^']*'|\S+`)
)

// CommandsRequiringSpec lists the slash commands whose first positional
// argument must name a spec.
var CommandsRequiringSpec = map[string]bool{
	"prd":             true,
	"discover":        true,
	"plan":            true,
	"design-research": true,
	"design-draft":    true,
	"tasks-plan":      true,
	"tasks-check":     true,
	"exec":            true,
	"checkpoint":      true,
	"qa":              true,
	"qa-check":        true,
	"qa-exec":         true,
}

// Command is a slash command found in a prompt.
type Command struct {
	Name string
	Args string
}

// RequiresSpec reports whether c must carry a spec name.
func (c Command) RequiresSpec() bool {
	return CommandsRequiringSpec[c.Name]
}

// SpecArg returns the spec name argument of c, or "".
func (c Command) SpecArg() string {
	return ExtractSpecArg(c.Args)
}

// FirstCommand returns the first line of prompt that is a workflow command.
func FirstCommand(prompt string) (Command, bool) {
	for _, line := range strings.Split(prompt, "\n") {
		m := commandRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		return Command{Name: strings.ToLower(m[1]), Args: strings.TrimSpace(m[2])}, true
	}
	return Command{}, false
}

// Tokenize splits an argument line on whitespace, keeping quoted strings
// together and stripping their quotes. Empty tokens are dropped.
func Tokenize(args string) []string {
	var out []string
	for _, tok := range tokenRe.FindAllString(args, -1) {
		if n := len(tok); n >= 2 && (tok[0] == '"' || tok[0] == '\'') && tok[n-1] == tok[0] {
			tok = tok[1 : n-1]
		}
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ExtractSpecArg returns the first positional argument, or "" when the line
// is empty or starts with a --flag.
func ExtractSpecArg(args string) string {
	tokens := Tokenize(args)
	if len(tokens) == 0 || strings.HasPrefix(tokens[0], "--") {
		return ""
	}
	return tokens[0]
}

// MissingSpec is the violation for a command that needs a spec name but has
// none.
func MissingSpec(c Command) report.Violation {
	cmd := CommandPrefix + c.Name
	return report.Violation{
		Title: "Missing <spec-name> for " + cmd,
		Details: []string{
			"Expected usage: " + cmd + " <spec-name>",
			"Tip: use " + CommandPrefix + "status if you need help discovering the current stage.",
		},
	}
}
