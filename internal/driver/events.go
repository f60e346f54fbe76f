package driver

import "time"

// Stage describes a compilation phase.
type Stage string

const (
	// StageDecode reads and decodes a parser output file.
	StageDecode Stage = "decode"
	// StageLower lowers a program into an IR module.
	StageLower Stage = "lower"
	// StagePasses runs the pass manager over every registered module.
	StagePasses Stage = "passes"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusCached means the module was loaded from the disk cache.
	StatusCached Status = "cached"
	StatusDone   Status = "done"
	StatusError  Status = "error"
)

// Event reports progress for one input file, or for the whole compilation
// when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Compile calls OnEvent from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
