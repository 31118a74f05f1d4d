package osutil

const Windows = "windows"

type ExitCode int

const (
	ExitOK    ExitCode = 0
	ExitError ExitCode = 1
)

const (
	DirPermission  = 0o755
	FilePermission = 0o600
)

// Env variables that disable coloured output.
const (
	EnvNoColor       = "NO_COLOR"
	EnvAttendNoColor = "ATTEND_NO_COLOR"
)
