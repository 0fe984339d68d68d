package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "DISEASE:diabetes mellitus", Resolve("DISEASE", "diabetes mellitus"))
	assert.Equal(t, Resolve("GENE", "ins"), Resolve("GENE", "ins"))
	assert.NotEqual(t, Resolve("GENE", "ins"), Resolve("PROTEIN", "ins"))
}

func TestResolve_NoCollisionWhenTextHasSeparator(t *testing.T) {
	// The type can never carry the separator, so these stay distinct.
	a := Resolve("A", "b:c")
	b := Resolve("A", "b")
	assert.NotEqual(t, a, b)

	typ, norm, ok := Split(a)
	assert.True(t, ok)
	assert.Equal(t, "A", typ)
	assert.Equal(t, "b:c", norm)
}

func TestSplit_Invalid(t *testing.T) {
	_, _, ok := Split("no-separator")
	assert.False(t, ok)

	_, _, ok = Split(":missing-type")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "lowercases", in: "Diabetes Mellitus", want: "diabetes mellitus"},
		{name: "keeps hyphens", in: "COVID-19", want: "covid-19"},
		{name: "strips punctuation", in: "Alzheimer's disease", want: "alzheimer s disease"},
		{name: "collapses whitespace", in: "  insulin \t receptor\n", want: "insulin receptor"},
		{name: "drops non-ascii", in: "β-cell", want: "-cell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
