// Package internal holds helpers shared by the emulator packages.
package internal

import (
	"iter"
	"maps"
	"slices"
)

// ConcatDefines concatenates multiple define iterators into a single
// iterator. Later sequences do not override earlier ones; each name is
// yielded once, from the first sequence that defines it.
func ConcatDefines(seqs ...iter.Seq2[string, string]) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		seen := map[string]bool{}
		for _, seq := range seqs {
			for name, value := range seq {
				if seen[name] {
					continue
				}
				seen[name] = true
				if !yield(name, value) {
					return
				}
			}
		}
	}
}

// SortedDefines collects a define iterator into name order.
func SortedDefines(seq iter.Seq2[string, string]) (names []string, values map[string]string) {
	values = maps.Collect(seq)
	names = slices.Sorted(maps.Keys(values))
	return
}
