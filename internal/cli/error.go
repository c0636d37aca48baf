package cli

// DisableUsage disables the usage printing when an error occurs
type DisableUsage interface {
	DisableUsage() struct{}
}

type errDisableUsage struct {
	error
}

func (err errDisableUsage) DisableUsage() struct{} { return struct{}{} }

func (err errDisableUsage) Unwrap() error { return err.error }

// CommandSuggester handles any suggestions to run if the current command isn't working
type CommandSuggester interface {
	SuggestedCommands() []string
}
