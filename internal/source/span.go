package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file. Every span the
// lowering produces for a module points at that module's single source file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// InFile returns s moved to file. Cached modules are rebased this way because
// file ids are assigned afresh on every run.
func (s Span) InFile(file FileID) Span {
	s.File = file
	return s
}

// Compare orders spans by file, then start, then end.
func (s Span) Compare(other Span) int {
	switch {
	case s.File != other.File:
		return cmpUint(uint32(s.File), uint32(other.File))
	case s.Start != other.Start:
		return cmpUint(s.Start, other.Start)
	default:
		return cmpUint(s.End, other.End)
	}
}

func cmpUint(a, b uint32) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
