package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// command preconditions
	PreconditionFailed Code = 1001
	FileConflict       Code = 1002
	NoSnapshot         Code = 1003

	// templates
	TemplateMissing       Code = 2001
	UnresolvedPlaceholder Code = 2002

	// anchors
	AnchorNotFound Code = 3001
	NoImports      Code = 3002

	// role table
	RoleTableMissing           Code = 4001
	RoleTableContainerNotFound Code = 4002
	MalformedEntry             Code = 4003
	RoleNotFound               Code = 4004

	// user input
	InvalidName       Code = 5001
	InvalidPermission Code = 5002
	InvalidToken      Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                "Unknown error",
		PreconditionFailed:         "Precondition failed",
		FileConflict:               "File already exists with different content",
		NoSnapshot:                 "Nothing to undo",
		TemplateMissing:            "Template missing",
		UnresolvedPlaceholder:      "Unresolved template placeholder",
		AnchorNotFound:             "No insertion anchor found",
		NoImports:                  "No import statements present",
		RoleTableMissing:           "Role table file missing",
		RoleTableContainerNotFound: "Role table container not found",
		MalformedEntry:             "Malformed role entry",
		RoleNotFound:               "Role not found",
		InvalidName:                "Invalid name",
		InvalidPermission:          "Invalid permission tag",
		InvalidToken:               "Invalid token",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PRE%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TPL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ROL%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("INP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
