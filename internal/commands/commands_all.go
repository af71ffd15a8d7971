package commands

// DefaultRegistry returns a registry holding the builtin slash commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterCommand("/clear", "Clear terminal screen and agent context", clearCmd)
	r.RegisterCommand("/help", "Show this help message", helpCmd)
	r.RegisterCommand("/exit", "End the session", exitCmd)
	r.RegisterCommand("/init", "Initialize a new Min-CC.md file with codebase documentation", initCmd)

	return r
}
