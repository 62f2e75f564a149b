package exempt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowlistIsExempt(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	list := NewAllowlist([]uuid.UUID{a}, uuid.Nil)
	assert.True(t, list.IsExempt(a))
	assert.False(t, list.IsExempt(b))
	assert.Equal(t, uuid.Nil, list.FreeTeacherID())
}

func TestFreeTeacherIsAlwaysExempt(t *testing.T) {
	free := uuid.New()

	list := NewAllowlist(nil, free)
	assert.True(t, list.IsExempt(free))
	assert.Equal(t, free, list.FreeTeacherID())
	assert.Equal(t, 1, list.Size())
}

func TestParseCSV(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	list, err := ParseCSV(a.String()+" , "+b.String()+",", "")
	require.NoError(t, err)
	assert.True(t, list.IsExempt(a))
	assert.True(t, list.IsExempt(b))
	assert.Equal(t, 2, list.Size())
}

func TestParseCSVRejectsGarbage(t *testing.T) {
	_, err := ParseCSV("not-a-uuid", "")
	assert.Error(t, err)

	_, err = ParseCSV("", "also-not-a-uuid")
	assert.Error(t, err)
}

func TestParseCSVEmpty(t *testing.T) {
	list, err := ParseCSV("", "")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Size())
}

func TestLoadFromFile(t *testing.T) {
	a := uuid.New()
	free := uuid.New()

	path := filepath.Join(t.TempDir(), "exempt.json")
	content := `{"exempt_teachers": ["` + a.String() + `"], "free_teacher": "` + free.String() + `"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	list, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, list.IsExempt(a))
	assert.True(t, list.IsExempt(free))
	assert.Equal(t, free, list.FreeTeacherID())
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
