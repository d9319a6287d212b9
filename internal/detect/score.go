package detect

import (
	"path"
	"strings"

	"github.com/alanmeadows/spwguard/internal/specdir"
)

// Scores for a changed file inside a spec.
const (
	scoreOther     = 1
	scoreArtifact  = 2
	scoreLifecycle = 3
)

var artifactNames = map[string]bool{
	"DESIGN-RESEARCH.md": true,
	"TASKS-CHECK.md":     true,
	"PRD.md":             true,
}

// scoreFile returns the spec a repo-relative path belongs to and how strongly
// it signals that spec. ok is false for paths outside the specs directory.
func scoreFile(file string) (spec string, score int, ok bool) {
	rest, found := strings.CutPrefix(path.Clean(file), specdir.SpecsDir+"/")
	if !found {
		return "", 0, false
	}
	spec, inner, found := strings.Cut(rest, "/")
	if !found || spec == "" || inner == "" {
		return "", 0, false
	}
	for _, doc := range specdir.LifecycleDocs {
		if inner == doc {
			return spec, scoreLifecycle, true
		}
	}
	if artifactNames[path.Base(inner)] {
		return spec, scoreArtifact, true
	}
	return spec, scoreOther, true
}

type candidate struct {
	score int
	pos   int
}

// rankSpecs picks the spec with the highest score across files. Each spec
// keeps its best score and the earliest position that reached it; ties
// between specs go to the earliest position. accept filters spec names.
func rankSpecs(files []string, accept func(string) bool) (string, bool) {
	best := make(map[string]candidate)
	for pos, f := range files {
		spec, score, ok := scoreFile(f)
		if !ok || (accept != nil && !accept(spec)) {
			continue
		}
		if prev, seen := best[spec]; !seen || score > prev.score {
			best[spec] = candidate{score: score, pos: pos}
		}
	}

	var winner string
	var top candidate
	for spec, c := range best {
		if winner == "" || c.score > top.score || (c.score == top.score && c.pos < top.pos) {
			winner, top = spec, c
		}
	}
	return winner, winner != ""
}
