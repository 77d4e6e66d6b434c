package wizard

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the user questions. The wizard depends on this interface so
// tests can script answers.
type Prompter interface {
	Select(message string, options []string, def string) (string, error)
	Input(message, def string, validate func(string) error) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// surveyPrompter asks on the terminal with survey
type surveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a terminal prompter
func NewSurveyPrompter(opts ...survey.AskOpt) Prompter {
	return &surveyPrompter{opts: opts}
}

func (p *surveyPrompter) Select(message string, options []string, def string) (string, error) {
	answer := def
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer, p.opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *surveyPrompter) Input(message, def string, validate func(string) error) (string, error) {
	answer := def
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	opts := p.opts
	if validate != nil {
		opts = append(append([]survey.AskOpt(nil), p.opts...), survey.WithValidator(func(ans interface{}) error {
			s, ok := ans.(string)
			if !ok {
				return fmt.Errorf("unexpected answer type %T", ans)
			}
			return validate(s)
		}))
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *surveyPrompter) Confirm(message string, def bool) (bool, error) {
	answer := def
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer, p.opts...); err != nil {
		return false, err
	}
	return answer, nil
}
