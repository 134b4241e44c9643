// Package prompt asks the user which analysis provider to use.
//
// Prompts are issued through an Asker so tests can answer them without a
// terminal. The production Asker renders a github.com/AlecAivazis/survey/v2
// list selection.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// ProviderQuestion is the message of the provider selection prompt.
const ProviderQuestion = "Which API would you like to use?"

// Asker answers a survey prompt by writing into response.
type Asker func(p survey.Prompt, response interface{}) error

// NewTerminalAsker returns an Asker that renders prompts on the process's
// stdin/stdout. It fails without prompting when stdin is not a terminal.
func NewTerminalAsker() Asker {
	return func(p survey.Prompt, response interface{}) error {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return errors.New("stdin is not an interactive terminal (use --provider to skip the prompt)")
		}

		return survey.AskOne(p, response,
			survey.WithStdio(os.Stdin, os.Stdout, os.Stderr),
			survey.WithIcons(func(icons *survey.IconSet) {
				icons.Question.Format = "blue+b"
				icons.SelectFocus.Format = "blue+b"
				icons.MarkedOption.Text = "[" + color.GreenString("✓") + "]"
			}),
		)
	}
}

// ProviderSelector asks the user to choose an analysis provider.
type ProviderSelector struct {
	ask Asker
}

// NewProviderSelector creates a ProviderSelector. A nil asker uses the
// terminal.
func NewProviderSelector(ask Asker) *ProviderSelector {
	if ask == nil {
		ask = NewTerminalAsker()
	}
	return &ProviderSelector{ask: ask}
}

// SelectProvider shows the provider list and returns the choice.
// Any failure, including Ctrl-C, wraps model.ErrPromptFailed.
func (s *ProviderSelector) SelectProvider() (model.Provider, error) {
	options := make([]string, 0, len(model.Providers))
	for _, p := range model.Providers {
		options = append(options, p.DisplayName())
	}

	var answer string
	err := s.ask(&survey.Select{
		Message: ProviderQuestion,
		Options: options,
	}, &answer)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", fmt.Errorf("%w: interrupted", model.ErrPromptFailed)
		}
		return "", fmt.Errorf("%w: %v", model.ErrPromptFailed, err)
	}

	p, err := model.ParseProvider(answer)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrPromptFailed, err)
	}
	return p, nil
}
