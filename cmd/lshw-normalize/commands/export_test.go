package commands

// SetArgs replaces the command line arguments for testing.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}
