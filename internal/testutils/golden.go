// Package testutils provides helpers shared by the package tests.
package testutils

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var update = flag.Bool("update", false, "update golden files")

// GoldenPath returns the path of the golden file for the current test.
func GoldenPath(t *testing.T) string {
	t.Helper()

	path := filepath.Join("testdata", "golden", t.Name())
	return path
}

// LoadWithUpdateFromGolden loads the golden file content, updating it with got
// when the -update flag is set.
func LoadWithUpdateFromGolden(t *testing.T, got string) string {
	t.Helper()

	goldenPath := GoldenPath(t)
	if *update {
		t.Logf("updating golden file %s", goldenPath)
		err := os.MkdirAll(filepath.Dir(goldenPath), 0750)
		require.NoError(t, err, "Cannot create directory for golden files")
		err = os.WriteFile(goldenPath, []byte(got), 0600)
		require.NoError(t, err, "Cannot write golden file")
	}

	want, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "Cannot load golden file")

	return string(want)
}

// LoadWithUpdateFromGoldenYAML serializes got to YAML and compares it to the
// golden file content, updating it when the -update flag is set.
func LoadWithUpdateFromGoldenYAML[E any](t *testing.T, got E) E {
	t.Helper()

	t.Logf("Serializing object for golden file")
	data, err := yaml.Marshal(got)
	require.NoError(t, err, "Cannot serialize object to YAML")
	want := LoadWithUpdateFromGolden(t, string(data))

	var wantDeserialized E
	err = yaml.Unmarshal([]byte(want), &wantDeserialized)
	require.NoError(t, err, "Cannot deserialize golden file content")

	return wantDeserialized
}
