package domain

// FeatureScope identifies the currently executing feature or scenario.
type FeatureScope string

// CommandResult is what a remote command channel returns for one invocation.
type CommandResult struct {
	Output   string
	ExitCode int
}

// Success reports a zero exit code.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}
