package ui

import (
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// Confirm shows a yes/no prompt
func Confirm(message string, defaultValue bool) (bool, error) {
	answer := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// AskInt prompts for an integer of at least floor, pre-filled with current
func AskInt(message string, current, floor int) (int, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: strconv.Itoa(current),
	}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(minInt(floor))); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}
