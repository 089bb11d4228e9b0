package employee

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

const (
	SexMale          = "M"
	SexFemale        = "F"
	SexIndeterminate = "I"
)

const (
	MaxNameLength       = 50
	MinCategory         = 1
	MaxCategory         = 9
	MaxSettableCategory = 10
	MinSeniorityYears   = 0
	MaxSeniorityYears   = 54
)
