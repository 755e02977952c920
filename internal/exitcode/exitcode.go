package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	ExtractError    = 3
	TransformError  = 4
	EmptyResult     = 5
	LoadError       = 6
	DBConnError     = 7
)
