package bibtex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPersons(t *testing.T) {
	assert.Equal(t,
		[]string{"John Smith", "Jane Doe"},
		SplitPersons("John Smith and Jane Doe"))
	assert.Equal(t,
		[]string{"{Barnes and Noble}", "Jane Doe"},
		SplitPersons("{Barnes and Noble} AND Jane Doe"))
	assert.Equal(t, []string{"Solo"}, SplitPersons("  Solo  "))
	assert.Empty(t, SplitPersons(""))
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"John Smith", Name{First: []string{"John"}, Last: []string{"Smith"}}},
		{"Smith", Name{Last: []string{"Smith"}}},
		{"John Ronald Reuel Tolkien", Name{First: []string{"John", "Ronald", "Reuel"}, Last: []string{"Tolkien"}}},
		{"Ludwig van Beethoven", Name{First: []string{"Ludwig"}, Von: []string{"van"}, Last: []string{"Beethoven"}}},
		{"Jean de la Fontaine", Name{First: []string{"Jean"}, Von: []string{"de", "la"}, Last: []string{"Fontaine"}}},
		{"van Beethoven, Ludwig", Name{First: []string{"Ludwig"}, Von: []string{"van"}, Last: []string{"Beethoven"}}},
		{"Ford, Jr., Henry", Name{First: []string{"Henry"}, Last: []string{"Ford"}, Jr: []string{"Jr."}}},
		{"M{\\\"u}ller, Hans", Name{First: []string{"Hans"}, Last: []string{"Müller"}}},
		{"{Barnes and Noble}", Name{Last: []string{"Barnes and Noble"}}},
		{"Jean~Paul Sartre", Name{First: []string{"Jean", "Paul"}, Last: []string{"Sartre"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseName(tt.in))
		})
	}
}

func TestNameHelpers(t *testing.T) {
	n := ParseName("Jean-Paul Sartre")
	assert.Equal(t, "J.P.", n.Initials())
	assert.Equal(t, "Sartre", n.Family())

	n = ParseName("Donald Ervin Knuth")
	assert.Equal(t, "D.E.", n.Initials())

	assert.True(t, ParseName("others").IsOthers())
	assert.False(t, ParseName("John Others").IsOthers())
}

func TestIsLowerWord(t *testing.T) {
	assert.True(t, isLowerWord("van"))
	assert.False(t, isLowerWord("Van"))
	assert.False(t, isLowerWord("{van}"))
	assert.True(t, isLowerWord(`{\"u}ber`))
	assert.False(t, isLowerWord(`{\v S}koda`))
}
