package model

// QuickReference is a display-only cheat sheet attached to a subject.
type QuickReference struct {
	Type     string `json:"type" yaml:"type"` // code or latex
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Content  string `json:"content" yaml:"content"`
}

// Subject is a named teaching domain. Context is the free text that steers the
// model; Icon is display only.
type Subject struct {
	Name             string          `json:"name" yaml:"name"`
	Description      string          `json:"description" yaml:"description"`
	Context          string          `json:"context" yaml:"context"`
	Icon             string          `json:"icon" yaml:"icon"`
	ExampleQuestions []string        `json:"example_questions" yaml:"example_questions"`
	StudyTips        []string        `json:"study_tips" yaml:"study_tips"`
	QuickReference   *QuickReference `json:"quick_reference,omitempty" yaml:"quick_reference,omitempty"`
	IsCustom         bool            `json:"is_custom" yaml:"-"`
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (s Subject) Clone() Subject {
	out := s
	out.ExampleQuestions = append([]string(nil), s.ExampleQuestions...)
	out.StudyTips = append([]string(nil), s.StudyTips...)
	if s.QuickReference != nil {
		ref := *s.QuickReference
		out.QuickReference = &ref
	}
	return out
}
