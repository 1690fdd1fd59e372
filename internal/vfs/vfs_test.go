package vfs

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/gamedata/internal/model"
)

const root = "/GameData"

func newFS(t *testing.T, strategy Strategy) (*FileSystem, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	v, err := New(mem, root, strategy)
	require.NoError(t, err)
	require.NoError(t, v.EnsureRoot())
	require.NoError(t, v.CreateTypeFolder("Sample"))
	return v, mem
}

func TestNew_RejectsUnknownStrategy(t *testing.T) {
	_, err := New(afero.NewMemMapFs(), root, Strategy(42))
	assert.ErrorIs(t, err, model.ErrImpossible)
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"": StrategyMarker, "marker": StrategyMarker, "Suffix": StrategySuffix, "auto": StrategyAuto} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStrategy("guess")
	assert.ErrorIs(t, err, model.ErrImpossible)
}

func TestEnsureRootWritesIgnoreFile(t *testing.T) {
	_, mem := newFS(t, StrategyMarker)
	ok, err := afero.Exists(mem, filepath.Join(root, IgnoreFile))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInstanceDir_ReadModeMissing(t *testing.T) {
	v, _ := newFS(t, StrategyMarker)
	_, err := v.InstanceDir("Sample", "Hero", nil, Read)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestInstanceDir_InvalidName(t *testing.T) {
	v, _ := newFS(t, StrategyMarker)
	_, err := v.InstanceDir("Sample", `<>?`, nil, Write)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestInstanceDir_WriteCreatesMarkers(t *testing.T) {
	v, mem := newFS(t, StrategyMarker)

	dir, err := v.InstanceDir("Sample", "Hero:1", model.FolderPath{"Bosses", "Act1"}, Write)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Sample", "Bosses", "Act1", "Hero1"), dir)

	for _, p := range []string{
		filepath.Join(root, "Sample", "Bosses.folder"),
		filepath.Join(root, "Sample", "Bosses", "Act1.folder"),
		filepath.Join(root, "Sample", "Bosses", "Act1", "Hero1.file"),
	} {
		ok, err := afero.Exists(mem, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}

	again, err := v.InstanceDir("Sample", "Hero:1", model.FolderPath{"Bosses", "Act1"}, Read)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestListing_AllStrategies(t *testing.T) {
	for _, strategy := range []Strategy{StrategyMarker, StrategySuffix, StrategyAuto} {
		t.Run(strategy.String(), func(t *testing.T) {
			v, mem := newFS(t, strategy)

			_, err := v.InstanceDir("Sample", "Hero", nil, Write)
			require.NoError(t, err)
			_, err = v.InstanceDir("Sample", "Villain", nil, Write)
			require.NoError(t, err)
			_, err = v.InstanceDir("Sample", "Boss", model.FolderPath{"Bosses"}, Write)
			require.NoError(t, err)
			// An unmarked stray directory must never be listed as a folder.
			require.NoError(t, mem.MkdirAll(filepath.Join(root, "Sample", "stray", "nested"), 0755))

			folders, err := v.Folders("Sample", nil)
			require.NoError(t, err)
			files, err := v.Instances("Sample", nil)
			require.NoError(t, err)

			if strategy == StrategyAuto {
				assert.ElementsMatch(t, []string{"Bosses", "stray"}, folders)
			} else {
				assert.Equal(t, []string{"Bosses"}, folders)
			}
			assert.Equal(t, []string{"Hero", "Villain"}, files)

			nested, err := v.Instances("Sample", model.FolderPath{"Bosses"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Boss"}, nested)
		})
	}
}

func TestListing_MissingDirectory(t *testing.T) {
	v, _ := newFS(t, StrategyMarker)
	_, err := v.Instances("Sample", model.FolderPath{"Nowhere"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListing_IgnoresOrphanMarker(t *testing.T) {
	v, mem := newFS(t, StrategyMarker)
	require.NoError(t, afero.WriteFile(mem, filepath.Join(root, "Sample", "Ghost.file"), nil, 0644))

	files, err := v.Instances("Sample", nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDeleteInstance(t *testing.T) {
	for _, strategy := range []Strategy{StrategyMarker, StrategySuffix} {
		t.Run(strategy.String(), func(t *testing.T) {
			v, mem := newFS(t, strategy)
			dir, err := v.InstanceDir("Sample", "Hero", nil, Write)
			require.NoError(t, err)
			require.NoError(t, afero.WriteFile(mem, filepath.Join(dir, "Data.json"), []byte("{}"), 0644))

			require.NoError(t, v.DeleteInstance("Sample", nil, "Hero"))

			_, err = v.InstanceDir("Sample", "Hero", nil, Read)
			assert.ErrorIs(t, err, model.ErrNotFound)
			files, err := v.Instances("Sample", nil)
			require.NoError(t, err)
			assert.Empty(t, files)
			marker, _ := afero.Exists(mem, dir+FileMarkerExt)
			assert.False(t, marker)

			assert.ErrorIs(t, v.DeleteInstance("Sample", nil, "Hero"), model.ErrNotFound)
		})
	}
}

func TestCreateAndDeleteFolder(t *testing.T) {
	v, mem := newFS(t, StrategyMarker)
	require.NoError(t, v.CreateFolder("Sample", nil, "Bosses"))
	_, err := v.InstanceDir("Sample", "Boss", model.FolderPath{"Bosses"}, Write)
	require.NoError(t, err)

	folders, err := v.Folders("Sample", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bosses"}, folders)

	require.NoError(t, v.DeleteFolder("Sample", nil, "Bosses"))

	folders, err = v.Folders("Sample", nil)
	require.NoError(t, err)
	assert.Empty(t, folders)
	gone, _ := afero.DirExists(mem, filepath.Join(root, "Sample", "Bosses"))
	assert.False(t, gone)
}

func TestSuffixStrategySpelling(t *testing.T) {
	v, mem := newFS(t, StrategySuffix)
	dir, err := v.InstanceDir("Sample", "Boss", model.FolderPath{"Bosses"}, Write)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Sample", "Bosses.d", "Boss.f"), dir)

	ok, _ := afero.DirExists(mem, filepath.Join(root, "Sample", "Bosses.d"))
	assert.True(t, ok)
}

func TestDelete_InvalidNameKeepsSiblings(t *testing.T) {
	for _, strategy := range []Strategy{StrategyMarker, StrategySuffix, StrategyAuto} {
		t.Run(strategy.String(), func(t *testing.T) {
			v, _ := newFS(t, strategy)
			_, err := v.InstanceDir("Sample", "Hero", nil, Write)
			require.NoError(t, err)
			_, err = v.InstanceDir("Sample", "Villain", model.FolderPath{"Bosses"}, Write)
			require.NoError(t, err)

			for _, name := range []string{"", "..", "???", " . "} {
				assert.ErrorIs(t, v.DeleteInstance("Sample", nil, name), ErrInvalidName, "instance %q", name)
				assert.ErrorIs(t, v.DeleteFolder("Sample", nil, name), ErrInvalidName, "folder %q", name)
				assert.ErrorIs(t, v.DeleteInstance("Sample", model.FolderPath{"Bosses"}, name), ErrInvalidName, "nested %q", name)
			}

			files, err := v.Instances("Sample", nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"Hero"}, files)
			nested, err := v.Instances("Sample", model.FolderPath{"Bosses"})
			require.NoError(t, err)
			assert.Equal(t, []string{"Villain"}, nested)
			_, err = v.InstanceDir("Sample", "Hero", nil, Read)
			assert.NoError(t, err)
		})
	}
}

func TestInstanceDir_WriteRestoresLostMarker(t *testing.T) {
	v, mem := newFS(t, StrategyMarker)
	require.NoError(t, mem.MkdirAll(filepath.Join(root, "Sample", "Villain"), 0755))

	files, err := v.Instances("Sample", nil)
	require.NoError(t, err)
	assert.Empty(t, files)

	dir, err := v.InstanceDir("Sample", "Villain", nil, Write)
	require.NoError(t, err)
	ok, err := afero.Exists(mem, dir+FileMarkerExt)
	require.NoError(t, err)
	assert.True(t, ok)

	files, err = v.Instances("Sample", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Villain"}, files)
}

func TestInstanceAndFolderNamesConflict(t *testing.T) {
	v, mem := newFS(t, StrategyMarker)
	require.NoError(t, v.CreateFolder("Sample", nil, "Hero"))

	_, err := v.InstanceDir("Sample", "Hero", nil, Write)
	assert.ErrorIs(t, err, ErrNameConflict)
	leaf, _ := afero.Exists(mem, filepath.Join(root, "Sample", "Hero"+FileMarkerExt))
	assert.False(t, leaf)

	folders, err := v.Folders("Sample", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hero"}, folders)
	files, err := v.Instances("Sample", nil)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = v.InstanceDir("Sample", "Villain", nil, Write)
	require.NoError(t, err)
	assert.ErrorIs(t, v.CreateFolder("Sample", nil, "Villain"), ErrNameConflict)
}

func TestInstanceDir_AutoRejectsExistingBranch(t *testing.T) {
	v, mem := newFS(t, StrategyAuto)
	require.NoError(t, mem.MkdirAll(filepath.Join(root, "Sample", "Bosses", "Boss"), 0755))

	_, err := v.InstanceDir("Sample", "Bosses", nil, Write)
	assert.ErrorIs(t, err, ErrNameConflict)
}
