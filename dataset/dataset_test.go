package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFixtures() []*Sample {
	return []*Sample{
		{
			ID:         "s1",
			Problem:    "a b c = triangle a b c; d = midpoint d a b ? cong a d b d",
			Goal:       "cong a d b d",
			NumClauses: 2,
			Proof:      "<problem> midp d a b [001] </problem> <proof> cong a d b d [002] (midp_cong) <= 001 </proof> <goal> 002 </goal>",
			ElapsedMS:  3,
		},
		{
			ID:         "s2",
			Problem:    "a b c = triangle a b c; d = foot d a b c ? perp a d b c",
			Goal:       "perp a d b c",
			NumClauses: 2,
			Proof:      "<problem> perp a d b c [001] </problem> <proof>  </proof> <goal> 001 </goal>",
			ElapsedMS:  1,
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := NewWriter(path, "csv")
	require.NoError(t, err)
	for _, s := range sampleFixtures() {
		require.NoError(t, w.Write(s))
	}
	require.NoError(t, w.Close())

	got, skipped, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, *sampleFixtures()[0], got[0])
	assert.Equal(t, *sampleFixtures()[1], got[1])
}

func TestJSONLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewWriter(path, "jsonl")
	require.NoError(t, err)
	for _, s := range sampleFixtures() {
		require.NoError(t, w.Write(s))
	}
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var got Sample
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, *sampleFixtures()[0], got)
}

func TestJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewWriter(path, "jsonl")
	require.NoError(t, err)
	for _, s := range sampleFixtures() {
		require.NoError(t, w.Write(s))
	}
	require.NoError(t, w.Close())

	// Read dispatches on the extension, so jsonl files work wherever a
	// dataset path is accepted.
	got, skipped, err := Read(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, *sampleFixtures()[0], got[0])
	assert.Equal(t, *sampleFixtures()[1], got[1])
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	content := strings.Join([]string{
		`{"id":"s1","problem":"a b c = triangle a b c ? coll a b c","goal":"coll a b c","n_clauses":1,"proof":"p","elapsed_ms":2}`,
		`{"id":"s2","problem":`,
		``,
		`{"goal":"missing id and problem"}`,
		`{"id":"s3","problem":"a b c = triangle a b c ? coll a c b","goal":"coll a b c","n_clauses":1,"proof":"p","elapsed_ms":4}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, skipped, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "s3", got[1].ID)
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "x"), "parquet")
	assert.Error(t, err)
}

func TestReadCSVSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := strings.Join([]string{
		"id,problem,goal,n_clauses,proof,elapsed_ms",
		`s1,"a b c = triangle a b c ? coll a b c",coll a b c,1,p,2`,
		`s2,too,short`,
		`s3,prob,goal,not_a_number,p,2`,
		`s4,prob,goal,3,p,9`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, skipped, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "s4", got[1].ID)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,problem,goal,n_clauses,proof,elapsed_ms\n"), 0o644))

	got, skipped, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Empty(t, got)
}
