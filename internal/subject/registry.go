package subject

import (
	"errors"
	"fmt"
	"strings"

	"gopherai-tutor/internal/model"
)

const (
	DefaultIcon = "📚"
	customBadge = " ✨"
)

var (
	ErrEmptyName     = errors.New("subject name is empty")
	ErrAlreadyExists = errors.New("subject already exists")
	ErrNotFound      = errors.New("subject not found")
	ErrBuiltin       = errors.New("built-in subjects cannot be removed")
)

// Registry holds the built-in subjects plus the custom subjects of one session.
// Names are unique across both sets and matched case-sensitively.
type Registry struct {
	builtins []model.Subject
	custom   []model.Subject
}

func NewRegistry() *Registry {
	return NewRegistryWith(Builtins())
}

func NewRegistryWith(builtins []model.Subject) *Registry {
	r := &Registry{builtins: make([]model.Subject, 0, len(builtins))}
	for _, s := range builtins {
		s = s.Clone()
		s.IsCustom = false
		r.builtins = append(r.builtins, s)
	}
	return r
}

// Register adds a custom subject. Blank description, context and icon fall back
// to name-interpolated defaults; example questions and study tips always come
// from fixed templates.
func (r *Registry) Register(name, description, context, icon string) (model.Subject, error) {
	if strings.TrimSpace(name) == "" {
		return model.Subject{}, ErrEmptyName
	}
	if r.indexOf(r.builtins, name) >= 0 || r.indexOf(r.custom, name) >= 0 {
		return model.Subject{}, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	if description == "" {
		description = "Custom subject: " + name
	}
	if context == "" {
		context = "General knowledge and concepts related to " + name
	}
	if icon == "" {
		icon = DefaultIcon
	}

	s := model.Subject{
		Name:        name,
		Description: description,
		Context:     context,
		Icon:        icon,
		ExampleQuestions: []string{
			fmt.Sprintf("What are the basics of %s?", name),
			fmt.Sprintf("Can you explain key concepts in %s?", name),
			fmt.Sprintf("What should I know about %s?", name),
			fmt.Sprintf("How can I get started with %s?", name),
			fmt.Sprintf("What are common applications of %s?", name),
		},
		StudyTips: []string{
			"Break down complex topics into smaller parts",
			"Practice regularly and consistently",
			"Ask specific questions when you're stuck",
			"Look for real-world applications",
			"Review and summarize what you've learned",
		},
		IsCustom: true,
	}
	r.custom = append(r.custom, s)
	return s.Clone(), nil
}

func (r *Registry) Remove(name string) error {
	if r.indexOf(r.builtins, name) >= 0 {
		return fmt.Errorf("%w: %s", ErrBuiltin, name)
	}
	idx := r.indexOf(r.custom, name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	r.custom = append(r.custom[:idx], r.custom[idx+1:]...)
	return nil
}

func (r *Registry) Get(name string) (model.Subject, error) {
	if idx := r.indexOf(r.builtins, name); idx >= 0 {
		return r.builtins[idx].Clone(), nil
	}
	if idx := r.indexOf(r.custom, name); idx >= 0 {
		return r.custom[idx].Clone(), nil
	}
	return model.Subject{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (r *Registry) Has(name string) bool {
	return r.indexOf(r.builtins, name) >= 0 || r.indexOf(r.custom, name) >= 0
}

// ListAll returns built-ins in declaration order followed by custom subjects in
// registration order.
func (r *Registry) ListAll() []model.Subject {
	out := make([]model.Subject, 0, len(r.builtins)+len(r.custom))
	for _, s := range r.builtins {
		out = append(out, s.Clone())
	}
	for _, s := range r.custom {
		out = append(out, s.Clone())
	}
	return out
}

func (r *Registry) Custom() []model.Subject {
	out := make([]model.Subject, 0, len(r.custom))
	for _, s := range r.custom {
		out = append(out, s.Clone())
	}
	return out
}

// DisplayIcon marks custom subjects with a sparkle. Unknown subjects get the default icon.
func (r *Registry) DisplayIcon(name string) string {
	s, err := r.Get(name)
	if err != nil {
		return DefaultIcon
	}
	icon := s.Icon
	if icon == "" {
		icon = DefaultIcon
	}
	if s.IsCustom {
		icon += customBadge
	}
	return icon
}

func (r *Registry) indexOf(list []model.Subject, name string) int {
	for i := range list {
		if list[i].Name == name {
			return i
		}
	}
	return -1
}
