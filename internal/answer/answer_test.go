package answer

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
	}{
		{"absent", Absent(), 0},
		{"number", Number(7), 7},
		{"negative number", Number(-2.5), -2.5},
		{"embedded suffix", String("choice-3"), 3},
		{"no hyphen", String("yes"), 0},
		{"non-numeric suffix", String("no-hyphen"), 0},
		{"last hyphen wins", String("a-b-4"), 4},
		{"trailing hyphen", String("item-"), 0},
		{"leading hyphen", String("-3"), 3},
		{"decimal suffix", String("item-1.5"), 1.5},
		{"padded suffix", String("item- 2 "), 2},
		{"hex suffix", String("item-0x10"), 16},
		{"nan suffix", String("item-NaN"), 0},
		{"lower nan suffix", String("item-nan"), 0},
		{"inf suffix", String("item-inf"), 0},
		{"upper inf suffix", String("item-INF"), 0},
		{"signed inf suffix", String("item-+inf"), 0},
		{"infinity suffix", String("item-infinity"), 0},
		{"Infinity suffix", String("item-Infinity"), 0},
		{"signed Infinity suffix", String("item-+Infinity"), 0},
		{"overflowing suffix", String("item-1e400"), 0},
		{"infinite number", Number(math.Inf(1)), 0},
		{"negative infinite number", Number(math.Inf(-1)), 0},
		{"nan number", Number(math.NaN()), 0},
		{"overflowing list", List(Number(1e308), Number(1e308)), 0},
		{"overflowing string list", List(String("a-1e308"), String("b-1e308")), 0},
		{"mixed list", List(String("a-3"), String("b-5"), Number(2)), 10},
		{"list skips nested", List(Number(1), List(Number(5)), Other(true)), 1},
		{"empty list", List(), 0},
		{"other", Other(true), 0},
		{"object", Other(map[string]any{"a": 1}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.v))
		})
	}
}

func TestParseNonFiniteYAML(t *testing.T) {
	set, err := Parse([]byte("impact-RS: .nan\nreach-RS: .inf\nmix-RS: [-.inf, 2]\n"), "answers.yaml")
	require.NoError(t, err)

	assert.Equal(t, KindNumber, set.Get("impact-RS").Kind())
	assert.Equal(t, float64(0), Extract(set.Get("impact-RS")))
	assert.Equal(t, float64(0), Extract(set.Get("reach-RS")))
	assert.Equal(t, float64(2), Extract(set.Get("mix-RS")))

	_, err = json.Marshal(set)
	assert.NoError(t, err)
}

func TestFromAny(t *testing.T) {
	assert.Equal(t, KindAbsent, FromAny(nil).Kind())
	assert.Equal(t, KindNumber, FromAny(3).Kind())
	assert.Equal(t, KindNumber, FromAny(json.Number("4")).Kind())
	assert.Equal(t, KindString, FromAny("x-1").Kind())
	assert.Equal(t, KindOther, FromAny(false).Kind())

	list := FromAny([]any{"a-1", 2.0, nil})
	require.Equal(t, KindList, list.Kind())
	require.Len(t, list.Items(), 3)
	assert.Equal(t, KindAbsent, list.Items()[2].Kind())
}

func TestValueJSON(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`["item1-2", 3]`), &v))
	assert.Equal(t, float64(5), Extract(v))

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `["item1-2", 3]`, string(out))
}

func TestValueIsEmpty(t *testing.T) {
	assert.True(t, Absent().IsEmpty())
	assert.True(t, String("").IsEmpty())
	assert.True(t, List().IsEmpty())
	assert.False(t, Number(0).IsEmpty())
	assert.False(t, String("item-0").IsEmpty())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, String("a-1").Equal(String("a-1")))
	assert.False(t, String("1").Equal(Number(1)))
	assert.True(t, List(Number(1), String("b")).Equal(List(Number(1), String("b"))))
	assert.False(t, List(Number(1)).Equal(List(Number(2))))
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.json")
	content := `{"q1-RS": "item2-3", "q2": ["a-1", "b-2"], "q3": 4, "notes": "free text"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.Hash, "sha256:"))
	assert.Equal(t, float64(3), Extract(f.Answers.Get("q1-RS")))
	assert.Equal(t, float64(3), Extract(f.Answers.Get("q2")))
	assert.Equal(t, float64(4), Extract(f.Answers.Get("q3")))
	assert.Equal(t, KindAbsent, f.Answers.Get("missing").Kind())
	assert.Equal(t, []string{"notes", "q1-RS", "q2", "q3"}, f.Answers.Names())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.yaml")
	content := "q1-RS: item2-3\nq2:\n  - a-1\n  - 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float64(3), Extract(f.Answers.Get("q1-RS")))
	assert.Equal(t, float64(3), Extract(f.Answers.Get("q2")))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("/nonexistent/answers.json")
	require.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2]"), 0644))
	_, err = Load(path)
	require.Error(t, err)
}
