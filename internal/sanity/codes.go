package sanity

// Warning codes.
const (
	CodeAxisDriver        = "axis_driver"
	CodeClosedLoop        = "closed_loop"
	CodeTandemMaster      = "tandem_master"
	CodeTouchy            = "touchy"
	CodeDaughterMode      = "daughter_mode"
	CodeDaughterFrequency = "daughter_frequency"
	CodeDuplicateSignal   = "duplicate_signal"
	CodeHomeExclusive     = "home_exclusive"
	CodeLimitExclusive    = "limit_exclusive"
)
