package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestFindTripFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "yellow_tripdata_2025-02.csv")
	touch(t, dir, "yellow_tripdata_2025-01.csv")
	touch(t, dir, "yellow_tripdata_2024-12.csv")
	touch(t, dir, "green_tripdata_2025-01.csv") // different dataset, ignored
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "yellow_tripdata_2025-03.csv"), 0o755))

	d := NewDiscovery(dir)
	found, err := d.FindTripFiles(".")
	require.NoError(t, err)

	require.Len(t, found, 3)
	assert.Equal(t, "2024-12", found[0].Month)
	assert.Equal(t, "2025-01", found[1].Month)
	assert.Equal(t, "2025-02", found[2].Month)
	assert.Equal(t, "yellow_tripdata_2024-12.csv", found[0].Name)
}

func TestFindTripFiles_MissingDirectory(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindTripFiles("absent")
	assert.Error(t, err)
}

func TestFindMonths(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "yellow_tripdata_2025-01.csv")
	touch(t, dir, "yellow_tripdata_2025-03.csv")

	d := NewDiscovery(dir)
	found, missing, err := d.FindMonths(".", []string{"2025-01", "2025-02", "2025-03"})
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, "2025-01", found[0].Month)
	assert.Equal(t, "2025-03", found[1].Month)
	assert.Equal(t, []string{"2025-02"}, missing)
}

func TestPaths(t *testing.T) {
	tripFiles := []TripFile{{Path: "/a"}, {Path: "/b"}}
	assert.Equal(t, []string{"/a", "/b"}, Paths(tripFiles))
}
