package deploy

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// TerminalPrompter implements Prompter on an attached terminal
type TerminalPrompter struct{}

func (TerminalPrompter) Input(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: true,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return result, nil
}

func (TerminalPrompter) Select(label string, items []string, defaultIndex int) (string, error) {
	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: defaultIndex,
	}
	_, result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return result, nil
}

func (TerminalPrompter) Confirm(label string, defaultValue bool) (bool, error) {
	defaultStr := "n"
	if defaultValue {
		defaultStr = "y"
	}
	prompt := promptui.Prompt{
		Label:     label + " (y/n)",
		Default:   defaultStr,
		AllowEdit: true,
	}
	result, err := prompt.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return result == "y" || result == "Y" || result == "yes", nil
}
