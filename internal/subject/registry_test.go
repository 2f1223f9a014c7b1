package subject

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsBuiltinName(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("Basic Algebra", "", "", "")
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Len(t, r.Custom(), 0)
}

func TestRegisterRejectsEmptyAndDuplicate(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("", "d", "c", "i")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = r.Register("Ancient History", "", "", "")
	require.NoError(t, err)
	_, err = r.Register("Ancient History", "again", "", "")
	require.ErrorIs(t, err, ErrAlreadyExists)

	// Matching is case-sensitive.
	_, err = r.Register("ancient history", "", "", "")
	require.NoError(t, err)
}

func TestRegisterFillsDefaultsAndTemplates(t *testing.T) {
	r := NewRegistry()

	s, err := r.Register("Guitar Playing", "", "", "")
	require.NoError(t, err)

	assert.True(t, s.IsCustom)
	assert.Equal(t, "Custom subject: Guitar Playing", s.Description)
	assert.Equal(t, "General knowledge and concepts related to Guitar Playing", s.Context)
	assert.Equal(t, DefaultIcon, s.Icon)
	require.Len(t, s.ExampleQuestions, 5)
	require.Len(t, s.StudyTips, 5)
	assert.Equal(t, "What are the basics of Guitar Playing?", s.ExampleQuestions[0])
	assert.Equal(t, "What are common applications of Guitar Playing?", s.ExampleQuestions[4])
}

func TestListAllOrdersBuiltinsThenCustom(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("Zoology", "", "", "🦓")
	require.NoError(t, err)
	_, err = r.Register("Astronomy", "", "", "🔭")
	require.NoError(t, err)

	all := r.ListAll()
	require.Len(t, all, len(Builtins())+2)

	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"Python Programming", "Basic Algebra", "Calculus", "Data Science", "Web Development",
		"Zoology", "Astronomy",
	}, names)
	assert.False(t, all[0].IsCustom)
	assert.True(t, all[6].IsCustom)
}

func TestRemove(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("Chess", "", "", "")
	require.NoError(t, err)

	require.ErrorIs(t, r.Remove("Calculus"), ErrBuiltin)
	require.ErrorIs(t, r.Remove("Checkers"), ErrNotFound)
	require.NoError(t, r.Remove("Chess"))
	assert.False(t, r.Has("Chess"))
	require.ErrorIs(t, r.Remove("Chess"), ErrNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	r := NewRegistry()

	s, err := r.Get("Calculus")
	require.NoError(t, err)
	s.ExampleQuestions[0] = "mutated"
	s.QuickReference.Content = "mutated"

	again, err := r.Get("Calculus")
	require.NoError(t, err)
	assert.Equal(t, "What is a derivative?", again.ExampleQuestions[0])
	assert.NotEqual(t, "mutated", again.QuickReference.Content)

	_, err = r.Get("Nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDisplayIcon(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("Painting", "", "", "🎨")
	require.NoError(t, err)

	assert.Equal(t, "🐍", r.DisplayIcon("Python Programming"))
	assert.Equal(t, "🎨 ✨", r.DisplayIcon("Painting"))
	assert.Equal(t, DefaultIcon, r.DisplayIcon("Unknown"))
}

func TestCatalogRoundTripThroughFile(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("Cooking", "Kitchen basics", "Knife skills and heat control", "🍳")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "subjects.yaml")
	require.NoError(t, SaveCatalog(path, r.ExportCustom()))

	loaded, err := LoadCatalog(path)
	require.NoError(t, err)

	fresh := NewRegistry()
	added, skipped := fresh.Import(loaded)
	assert.Equal(t, []string{"Cooking"}, added)
	assert.Empty(t, skipped)

	s, err := fresh.Get("Cooking")
	require.NoError(t, err)
	assert.Equal(t, "Knife skills and heat control", s.Context)
	assert.True(t, s.IsCustom)
}

func TestImportSkipsCollisions(t *testing.T) {
	c, err := ParseCatalog([]byte(`
subjects:
  - name: Calculus
  - name: ""
  - name: Poetry
    icon: "🎭"
`))
	require.NoError(t, err)

	added, skipped := NewRegistry().Import(c)
	assert.Equal(t, []string{"Poetry"}, added)
	assert.Equal(t, []string{"Calculus", ""}, skipped)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, c.Subjects)
}
