package set

import (
	"strings"
	"unicode"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
)

// mapText applies fn elementwise to a text set and rebuilds it.  A
// case-folding fn can collapse neighbours, so the result is re-sorted
// and deduplicated.
func (s *Set) mapText(fn func(string) string) (*Set, error) {
	if s.basetype != mtype.Text {
		return nil, base.TypeErrorf("text transform on set %s", s.settype)
	}
	values := make([]base.Datum, s.count)
	for i := range values {
		values[i] = base.TextDatum(fn(s.elem(i).Text()))
	}
	return Make(values, mtype.Text, false)
}

// Lower lowercases every element of a text set.
func (s *Set) Lower() (*Set, error) { return s.mapText(strings.ToLower) }

// Upper uppercases every element of a text set.
func (s *Set) Upper() (*Set, error) { return s.mapText(strings.ToUpper) }

// Initcap capitalizes the first letter of every word of every element.
func (s *Set) Initcap() (*Set, error) { return s.mapText(initcap) }

func initcap(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	startWord := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if startWord {
				sb.WriteRune(unicode.ToUpper(r))
			} else {
				sb.WriteRune(unicode.ToLower(r))
			}
			startWord = false
		} else {
			sb.WriteRune(r)
			startWord = true
		}
	}
	return sb.String()
}

// Textcat concatenates txt with every element.  With invert set the
// scalar is prepended, otherwise appended.
func (s *Set) Textcat(txt string, invert bool) (*Set, error) {
	return s.mapText(func(elem string) string {
		if invert {
			return txt + elem
		}
		return elem + txt
	})
}
