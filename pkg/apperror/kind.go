package apperror

type Kind string

var (
	// --- request / api ---
	InvalidInput   Kind = "invalid_input"
	AlreadyExists  Kind = "already_exist"
	NotFound       Kind = "not_found"
	Conflict       Kind = "conflict"
	RequestTimeout Kind = "request_timeout"
	Internal       Kind = "internal"
	Dependency     Kind = "dependency_failure"
	DatabaseErr    Kind = "database_error"

	// --- monitoring engine ---
	ProbeTimeout     Kind = "probe_timeout"
	ProbeUnreachable Kind = "probe_unreachable"
	ProbeMechanism   Kind = "probe_mechanism_error"
	Persistence      Kind = "persistence_error"
	Registry         Kind = "registry_error"
	CycleInProgress  Kind = "cycle_in_progress"
)
