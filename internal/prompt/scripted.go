package prompt

import "fmt"

// Scripted answers prompts from a fixed list. It records every question.
type Scripted struct {
	Answers   []string
	Questions []string
}

func (s *Scripted) next(question string) (string, error) {
	s.Questions = append(s.Questions, question)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("%w: no scripted answer for %q", ErrAborted, question)
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

func (s *Scripted) Input(question, def string) (string, error) {
	return s.next(question)
}

func (s *Scripted) Confirm(question string) (bool, error) {
	a, err := s.next(question)
	if err != nil {
		return false, err
	}
	return IsYes(a), nil
}
