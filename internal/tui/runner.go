package tui

import "fmt"

// PromptContinue asks for confirmation before a destructive action, e.g.
// overwriting an existing metadata file. Non-interactive runs proceed.
func PromptContinue(message string) bool {
	if !IsInteractive() {
		return true
	}

	fmt.Printf("%s [Y/n]: ", message)

	var response string
	fmt.Scanln(&response)

	return response == "" || response == "y" || response == "Y"
}

// StatusDisplay prints step outcomes in a consistent shape.
type StatusDisplay struct{}

func NewStatusDisplay() *StatusDisplay {
	return &StatusDisplay{}
}

func (s *StatusDisplay) Success(message string) {
	fmt.Printf("%s %s\n", SymbolCheck, message)
}

func (s *StatusDisplay) Error(message string) {
	fmt.Printf("%s %s\n", SymbolCross, message)
}
