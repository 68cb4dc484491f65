package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/agrimarket/agrimarket/internal/session"
)

// Prompter asks the user for input
type Prompter interface {
	// Interactive reports whether prompts can be shown at all
	Interactive() bool
	Input(label, defaultValue string) (string, error)
	Password(label string) (string, error)
	SelectUserType(label string, defaultType session.UserType) (session.UserType, error)
}

type terminalPrompter struct {
	out io.Writer
}

func newTerminalPrompter(out io.Writer) *terminalPrompter {
	return &terminalPrompter{out: out}
}

func (p *terminalPrompter) Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (p *terminalPrompter) Input(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt cancelled: %w", label, err)
	}
	return value, nil
}

func (p *terminalPrompter) Password(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

type userTypeOption struct {
	Label    string
	UserType session.UserType
}

func (p *terminalPrompter) SelectUserType(label string, defaultType session.UserType) (session.UserType, error) {
	options := []userTypeOption{
		{Label: "Farmer - sell produce and track orders", UserType: session.UserTypeFarmer},
		{Label: "Buyer - browse products and place orders", UserType: session.UserTypeBuyer},
		{Label: "Advisor - marketplace analytics", UserType: session.UserTypeAdvisor},
	}

	cursor := 0
	for i, o := range options {
		if o.UserType == defaultType {
			cursor = i
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		CursorPos: cursor,
		Size:      len(options),
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("role selection cancelled: %w", err)
	}
	return options[index].UserType, nil
}
