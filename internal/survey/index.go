package survey

// build flattens pages and panels into the question list. A question's parent
// is its enclosing panel, or its page when it sits directly on a page.
// Panels themselves are containers, not questions.
func (s *Survey) build() {
	s.questions = nil
	s.index = make(map[string]int)
	for _, p := range s.Pages {
		s.flatten(p.Name, p.Name, p.Elements)
	}
}

func (s *Survey) flatten(page, parent string, elements []Element) {
	for _, el := range elements {
		if el.Type == TypePanel {
			s.flatten(page, el.Name, el.Elements)
			continue
		}
		if _, dup := s.index[el.Name]; dup {
			// First definition wins; duplicates are reported by schema validation.
			continue
		}
		s.index[el.Name] = len(s.questions)
		s.questions = append(s.questions, Question{
			Name:    el.Name,
			Title:   el.Title,
			Type:    el.Type,
			Parent:  parent,
			Page:    page,
			Choices: el.Choices,
		})
	}
}

// Questions returns every question in document order.
func (s *Survey) Questions() []Question {
	s.once.Do(s.build)
	return s.questions
}

// Question looks up a question by name.
func (s *Survey) Question(name string) (Question, bool) {
	s.once.Do(s.build)
	i, ok := s.index[name]
	if !ok {
		return Question{}, false
	}
	return s.questions[i], true
}

// PageCount returns the number of pages.
func (s *Survey) PageCount() int { return len(s.Pages) }
