package set

import "github.com/maxpoletaev/srvcluster/internal/generic"

type Set[T comparable] map[T]struct{}

func (s Set[T]) Add(val T) {
	s[val] = struct{}{}
}

func (s Set[T]) Remove(val T) {
	delete(s, val)
}

func (s Set[T]) Has(val T) bool {
	if _, ok := s[val]; ok {
		return true
	}

	return false
}

func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) Values() []T {
	return generic.MapKeys(s)
}

func (s Set[T]) Copy() Set[T] {
	newset := make(Set[T], len(s))
	generic.MapCopy(s, newset)
	return newset
}

func (s Set[T]) Union(ss Set[T]) Set[T] {
	newset := make(Set[T], len(s)+len(ss))
	generic.MapCopy(s, newset)
	generic.MapCopy(ss, newset)
	return newset
}

// Diff returns the elements of s that are not in ss.
func (s Set[T]) Diff(ss Set[T]) Set[T] {
	newset := make(Set[T])

	for val := range s {
		if !ss.Has(val) {
			newset.Add(val)
		}
	}

	return newset
}

func (s Set[T]) Equals(ss Set[T]) bool {
	if len(s) != len(ss) {
		return false
	}

	size := generic.Max(len(s), len(ss))
	seen := make(map[T]int, size)

	for k := range s {
		seen[k]++
	}

	for k := range ss {
		if seen[k] == 0 {
			return false
		}

		seen[k]++
	}

	for _, v := range seen {
		if v != 2 {
			return false
		}
	}

	return true
}

func FromSlice[T comparable](sl []T) Set[T] {
	set := make(Set[T], len(sl))
	for _, val := range sl {
		set.Add(val)
	}
	return set
}

func New[T comparable](sl ...T) Set[T] {
	set := make(Set[T], len(sl))
	for _, val := range sl {
		set.Add(val)
	}
	return set
}
