package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lowering
	LowSkippedNode       Code = 2001
	LowUnsupportedTarget Code = 2002

	// semantic checks run by passes
	SemaBehaviourOutsideActor Code = 3002
	SemaUnresolved            Code = 3003
	SemaMissingReturn         Code = 3004

	// IO and input decoding
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
	IOCacheError    Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	LowSkippedNode:            "Declaration kind is not lowered",
	LowUnsupportedTarget:      "Unsupported assignment target",
	SemaBehaviourOutsideActor: "Behaviour outside of an actor",
	SemaUnresolved:            "Unresolved reference",
	SemaMissingReturn:         "Missing return in function",
	IOLoadFileError:           "I/O load file error",
	IODecodeError:             "Cannot decode parser output",
	IOCacheError:              "IR cache error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
