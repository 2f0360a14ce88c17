package pipeline

// Stage is a coarse progress marker streamed to clients while a turn runs
type Stage string

const (
	StageVision    Stage = "vision"
	StageRouting   Stage = "routing"
	StageSearching Stage = "searching"
	StageDrafting  Stage = "drafting"
	StageDone      Stage = "done"
	StageError     Stage = "error"
)

// Reporter receives stage changes. Implementations must not block.
type Reporter interface {
	Report(stage Stage, detail string)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(stage Stage, detail string)

func (f ReporterFunc) Report(stage Stage, detail string) {
	f(stage, detail)
}

type nopReporter struct{}

func (nopReporter) Report(Stage, string) {}

// NopReporter discards every stage
var NopReporter Reporter = nopReporter{}
