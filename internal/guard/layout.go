package guard

import "regexp"

// Layout holds the naming and placement vocabulary the path rules enforce.
type Layout struct {
	// SpecsPath is the directory chain that owns every spec, as segments.
	SpecsPath []string
	// ManagedArtifact matches basenames that must live inside a spec.
	ManagedArtifact *regexp.Regexp
	// RetiredDirs are directory names from layouts that are no longer allowed.
	RetiredDirs []string
	// ExecutionWaves is the directory chain holding execution wave folders.
	ExecutionWaves []string
	// QAExecWaves is the directory chain holding QA execution wave folders.
	QAExecWaves []string
	// WaveName matches a well-formed wave folder.
	WaveName *regexp.Regexp
	// WaveEntries lists what may appear directly inside an execution wave.
	WaveEntries []string
	// ExampleWaves is shown in wave naming violations.
	ExampleWaves string
}

// DefaultLayout is the layout used by the workflow commands.
var DefaultLayout = Layout{
	SpecsPath: []string{".spec-workflow", "specs"},
	ManagedArtifact: regexp.MustCompile(`(?i)^(DESIGN-RESEARCH|TASKS-CHECK|CHECKPOINT-REPORT|STATUS-SUMMARY|` +
		`SKILLS-[A-Z0-9-]+|PRD(-[A-Z0-9-]+)?|PRD-SOURCE-NOTES|PRD-STRUCTURE|PRD-REVISION-(PLAN|QUESTIONS|NOTES))\.md$`),
	RetiredDirs:    []string{"_agent-comms"},
	ExecutionWaves: []string{"execution", "waves"},
	QAExecWaves:    []string{"qa", "_comms", "qa-exec", "waves"},
	WaveName:       regexp.MustCompile(`^wave-\d{2}$`),
	WaveEntries:    []string{"execution", "checkpoint", "post-check", "_wave-summary.json", "_latest.json"},
	ExampleWaves:   "wave-01, wave-02, ...",
}

// IsManagedArtifact reports whether base names a file that must live inside
// a spec directory.
func (l Layout) IsManagedArtifact(base string) bool {
	return l.ManagedArtifact.MatchString(base)
}

func (l Layout) waveEntryAllowed(name string) bool {
	for _, e := range l.WaveEntries {
		if e == name {
			return true
		}
	}
	return false
}
