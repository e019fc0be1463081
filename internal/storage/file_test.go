package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/metalagman/todo/internal/task"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_LoadMissingIsEmpty(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	f := NewFile(afero.NewMemMapFs(), "tasks.txt", NewCodec(WithLogger(zerolog.New(&logs).Level(zerolog.InfoLevel))))

	got := f.Load()
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, logs.String(), "a missing file is not worth a warning")
}

func TestFile_Path(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultPath, NewFile(afero.NewMemMapFs(), "", newQuietCodec()).Path())
	assert.Equal(t, "data/tasks.txt", NewFile(afero.NewMemMapFs(), "data/tasks.txt", newQuietCodec()).Path())
}

func TestFile_SaveThenLoad(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	f := NewFile(fsys, filepath.Join("data", "tasks.txt"), newQuietCodec())

	require.NoError(t, f.Save(sampleTasks()))
	assertSameTasks(t, sampleTasks(), f.Load())

	raw, err := afero.ReadFile(fsys, filepath.Join("data", "tasks.txt"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("# To-Do App Tasks File\n")))
}

func TestFile_SaveRewritesWholeFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	f := NewFile(fsys, "tasks.txt", newQuietCodec())

	require.NoError(t, f.Save(sampleTasks()))
	require.NoError(t, f.Save(sampleTasks()[:1]))

	got := f.Load()
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFile_SaveFailure(t *testing.T) {
	t.Parallel()

	f := NewFile(afero.NewReadOnlyFs(afero.NewMemMapFs()), "tasks.txt", newQuietCodec())

	err := f.Save(sampleTasks())
	assert.Error(t, err)
}

func TestFile_LoadUnreadableIsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.txt")
	require.NoError(t, os.Mkdir(path, 0o755))

	var logs bytes.Buffer
	f := NewFile(afero.NewOsFs(), path, NewCodec(WithLogger(zerolog.New(&logs))))

	got := f.Load()
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

func TestFile_MalformedLineKeepsRest(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	content := "# To-Do App Tasks File\n\n" +
		"1|Buy milk|HIGH|false|2025-01-15T09:00:00|NULL|shopping\n" +
		"2|only|three\n"
	require.NoError(t, afero.WriteFile(fsys, "tasks.txt", []byte(content), 0o644))

	var logs bytes.Buffer
	f := NewFile(fsys, "tasks.txt", NewCodec(WithLogger(zerolog.New(&logs))))

	s := task.NewStore(f, task.WithLogger(zerolog.Nop()))
	got := s.List("")
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Description)
	assert.Contains(t, logs.String(), "2|only|three")
}

func TestFile_StorePersistsEveryMutation(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	f := NewFile(fsys, "tasks.txt", newQuietCodec())

	s := task.NewStore(f)
	s.Add("Buy milk", task.PriorityHigh, []string{"shopping"})
	s.Add("Walk dog", task.PriorityLow, nil)
	require.True(t, s.MarkCompleted(1))
	require.True(t, s.Delete(2))

	reloaded := task.NewStore(NewFile(fsys, "tasks.txt", newQuietCodec()))
	got := reloaded.List("")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	assert.True(t, got[0].Completed)
	assert.NotNil(t, got[0].CompletedAt)
	assert.Equal(t, []string{"shopping"}, got[0].Tags)
}
