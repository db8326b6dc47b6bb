package csvutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/lepinkainen/bookshop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
	City string
	Line int
}

func parsePerson(r Record) (person, error) {
	if r.Get("name") == "" {
		return person{}, errors.New("name is empty")
	}
	return person{Name: r.Get("name"), City: r.Get("city"), Line: r.Line}, nil
}

func TestProcessCSV(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("test.csv", "name,age,city\nAlice,30,NYC\nBob,25,LA\n")

	people, err := ProcessCSV(env.Path("test.csv"), parsePerson, ProcessorOptions{})
	require.NoError(t, err)

	assert.Equal(t, []person{
		{Name: "Alice", City: "NYC", Line: 2},
		{Name: "Bob", City: "LA", Line: 3},
	}, people)
}

func TestProcessCSV_MissingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, err := ProcessCSV(env.Path("missing.csv"), parsePerson, ProcessorOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open CSV file")
}

func TestProcessReader_Empty(t *testing.T) {
	_, err := ProcessReader(strings.NewReader(""), parsePerson, ProcessorOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestProcessReader_HeaderLookup(t *testing.T) {
	// Column order differs from the struct and the header carries a BOM
	input := "\ufeffcity, name\nHelsinki, Aino \nTurku\n"

	people, err := ProcessReader(strings.NewReader(input), func(r Record) (person, error) {
		return person{Name: r.Get("name"), City: r.Get("city")}, nil
	}, ProcessorOptions{})
	require.NoError(t, err)

	require.Len(t, people, 2)
	assert.Equal(t, person{Name: "Aino", City: "Helsinki"}, people[0])
	assert.Equal(t, person{City: "Turku"}, people[1], "short rows read as empty columns")
}

func TestProcessReader_Required(t *testing.T) {
	_, err := ProcessReader(strings.NewReader("name,age\nAlice,30\n"), parsePerson, ProcessorOptions{
		Required: []string{"name", "city"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"city"`)
}

func TestProcessReader_InvalidRecords(t *testing.T) {
	input := "name,city\nAlice,NYC\n,Nowhere\nBob,LA\n"

	t.Run("skip", func(t *testing.T) {
		people, err := ProcessReader(strings.NewReader(input), parsePerson, ProcessorOptions{SkipInvalid: true})
		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, 4, people[1].Line)
	})

	t.Run("fail", func(t *testing.T) {
		_, err := ProcessReader(strings.NewReader(input), parsePerson, ProcessorOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
	})
}

func TestRecordFields(t *testing.T) {
	r := Record{fields: []string{"a", "b"}, header: map[string]int{"x": 0}}
	assert.Equal(t, []string{"a", "b"}, r.Fields())
	assert.Equal(t, "", r.Get("missing"))
}
