package genome

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// IsPrimaryChrom reports whether a contig name is a primary chromosome.
// Alternate haplotypes, unplaced and unlocalized scaffolds are rejected.
func IsPrimaryChrom(name string) bool {
	return !strings.Contains(name, "_") &&
		!strings.Contains(name, "Un") &&
		!strings.Contains(name, "random")
}

// FilterChromosomes returns the primary chromosomes in cs.
func FilterChromosomes(cs []Chromosome) []Chromosome {
	out := make([]Chromosome, 0, len(cs))
	for _, c := range cs {
		if IsPrimaryChrom(c.Name) {
			out = append(out, c)
		}
	}
	return out
}

// namedRank places the sex and mitochondrial chromosomes after the autosomes
// in karyotype order. Other named contigs sort after these.
var namedRank = map[string]int{
	"X":  1,
	"Y":  2,
	"M":  3,
	"MT": 3,
}

// ChromLess orders chromosome names naturally: numeric names ascending by
// value, then X, Y and M, then any other names in collation order.
// For human-like assemblies this yields chr1 .. chr22, chrX, chrY, chrM.
type ChromLess struct {
	col *collate.Collator
}

// NewChromLess returns a comparator collating non-numeric names in English order.
func NewChromLess() *ChromLess {
	return &ChromLess{col: collate.New(language.English)}
}

// Compare returns -1, 0 or 1.
func (l *ChromLess) Compare(a, b string) int {
	ra := strings.TrimPrefix(a, "chr")
	rb := strings.TrimPrefix(b, "chr")
	okA, okB := isDigits(ra), isDigits(rb)

	switch {
	case okA && okB:
		if c := compareDigits(ra, rb); c != 0 {
			return c
		}
		// "01" vs "1": fall through to the string comparison below
	case okA:
		return -1
	case okB:
		return 1
	}

	if c := compareRank(namedRank[ra], namedRank[rb]); c != 0 {
		return c
	}
	if c := l.col.CompareString(ra, rb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortChromosomes sorts cs in place.
func SortChromosomes(cs []Chromosome) {
	less := NewChromLess()
	sort.SliceStable(cs, func(i, j int) bool {
		return less.Compare(cs[i].Name, cs[j].Name) < 0
	})
}

// compareRank orders ranked names first; rank 0 means unranked.
func compareRank(a, b int) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	case a < b:
		return -1
	default:
		return 1
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareDigits compares two digit strings by numeric value without parsing,
// so names of any length order correctly.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
