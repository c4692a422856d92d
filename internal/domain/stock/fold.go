package stock

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// folder normaliza texto para búsquedas y ordenamiento sin distinción de mayúsculas.
// cases.Caser guarda estado: se crea uno por llamada, nunca se comparte entre goroutines.
type folder struct {
	c cases.Caser
}

func newFolder() *folder {
	return &folder{c: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.c.String(s)
}

// contains reporta si haystack contiene needle (ya normalizado).
func (f *folder) contains(haystack, foldedNeedle string) bool {
	return strings.Contains(f.fold(haystack), foldedNeedle)
}

func (f *folder) compare(a, b string) int {
	return strings.Compare(f.fold(a), f.fold(b))
}

func newCollator() *collate.Collator {
	return collate.New(language.Und)
}
