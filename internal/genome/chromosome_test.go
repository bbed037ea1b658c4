package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(cs []Chromosome) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestSortChromosomes(t *testing.T) {
	cs := []Chromosome{{Name: "chrM"}, {Name: "chrX"}, {Name: "chr10"}, {Name: "chr2"}}
	SortChromosomes(cs)
	assert.Equal(t, []string{"chr2", "chr10", "chrX", "chrM"}, names(cs))
}

func TestSortChromosomes_Human(t *testing.T) {
	cs := []Chromosome{
		{Name: "chrY"}, {Name: "chr22"}, {Name: "chr1"}, {Name: "chrM"},
		{Name: "chr11"}, {Name: "chrX"}, {Name: "chr3"}, {Name: "chr21"},
	}
	SortChromosomes(cs)
	assert.Equal(t, []string{"chr1", "chr3", "chr11", "chr21", "chr22", "chrX", "chrY", "chrM"}, names(cs))
}

func TestSortChromosomes_OtherNames(t *testing.T) {
	// yeast-like roman numerals and unprefixed names
	cs := []Chromosome{{Name: "chrV"}, {Name: "chrII"}, {Name: "chrM"}, {Name: "chrI"}, {Name: "2"}, {Name: "chr1"}}
	SortChromosomes(cs)
	assert.Equal(t, []string{"chr1", "2", "chrM", "chrI", "chrII", "chrV"}, names(cs))
}

func TestChromLess_TotalOrder(t *testing.T) {
	less := NewChromLess()
	all := []string{"chr1", "chr2", "chr10", "chrX", "chrY", "chrM", "chrMT", "chrIV", "chr01", "1"}

	for _, a := range all {
		assert.Equal(t, 0, less.Compare(a, a), a)
		for _, b := range all {
			if a == b {
				continue
			}
			ab := less.Compare(a, b)
			assert.NotEqual(t, 0, ab, "%s vs %s", a, b)
			assert.Equal(t, -ab, less.Compare(b, a), "%s vs %s", a, b)
			for _, c := range all {
				if ab < 0 && less.Compare(b, c) < 0 {
					assert.Negative(t, less.Compare(a, c), "%s < %s < %s", a, b, c)
				}
			}
		}
	}
}

func TestFilterChromosomes(t *testing.T) {
	in := []Chromosome{
		{Name: "chr1_KI270706v1_random", Size: 175055},
		{Name: "chr1", Size: 248956422},
		{Name: "chrUn_GL000195v1", Size: 182896},
		{Name: "chr6_GL000250v2_alt", Size: 4672374},
		{Name: "chrX", Size: 156040895},
		{Name: "chr9_random", Size: 100},
		{Name: "chrM", Size: 16569},
	}

	out := FilterChromosomes(in)
	assert.Equal(t, []string{"chr1", "chrX", "chrM"}, names(out))
	for _, c := range out {
		assert.NotContains(t, c.Name, "_")
		assert.NotContains(t, c.Name, "Un")
		assert.NotContains(t, c.Name, "random")
	}
	assert.Equal(t, int64(248956422), out[0].Size)
}

func TestIsPrimaryChrom(t *testing.T) {
	assert.True(t, IsPrimaryChrom("chr17"))
	assert.False(t, IsPrimaryChrom("chrUn"))
	assert.False(t, IsPrimaryChrom("random"))
	assert.False(t, IsPrimaryChrom("chr17_alt"))
}

func TestSortChromosomes_LongNumericNames(t *testing.T) {
	// beyond uint64; still ordered by value and ahead of named contigs
	cs := []Chromosome{
		{Name: "chrX"},
		{Name: "chr123456789012345678901234567890"},
		{Name: "chr99999999999999999999"},
		{Name: "chr2"},
	}
	SortChromosomes(cs)
	assert.Equal(t, []string{"chr2", "chr99999999999999999999", "chr123456789012345678901234567890", "chrX"}, names(cs))

	less := NewChromLess()
	assert.Negative(t, less.Compare("chr18446744073709551616", "chr18446744073709551617"))
	assert.Positive(t, less.Compare("chr000000000000000000000010", "chr9"))
}
