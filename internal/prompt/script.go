package prompt

import "github.com/pkg/errors"

// ErrScriptExhausted is returned by Script when it runs out of answers.
var ErrScriptExhausted = errors.New("no more scripted answers")

// Script is an Asker that replays a fixed sequence of answers.
type Script struct {
	answers  []string
	Labels   []string
	Messages []string
}

// NewScript returns a Script answering with answers in order.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

// Ask implements Asker.
func (s *Script) Ask(label string) (string, error) {
	return s.next(label)
}

// AskSecret implements Asker.
func (s *Script) AskSecret(label string) (string, error) {
	return s.next(label)
}

// Notify implements Asker.
func (s *Script) Notify(message string) {
	s.Messages = append(s.Messages, message)
}

// Remaining returns the number of answers not consumed yet.
func (s *Script) Remaining() int {
	return len(s.answers)
}

func (s *Script) next(label string) (string, error) {
	s.Labels = append(s.Labels, label)
	if len(s.answers) == 0 {
		return "", ErrScriptExhausted
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}
