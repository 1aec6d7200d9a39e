// Package sorting provides a comparator-driven stable sort used to order
// records for presentation.
//
// The algorithm is a simplified run-merge sort: short inputs are insertion
// sorted, longer inputs are cut into runs of a computed minimum length, each
// run is insertion sorted, and runs are merged pairwise with doubling widths.
// There is no galloping mode.
//
// The comparator must describe a total order (negative when a sorts before b,
// zero when equal, positive otherwise). With an inconsistent comparator the
// output order is unspecified.
package sorting

// MinMerge is the length below which a slice is insertion sorted as a whole.
const MinMerge = 32

// Stable sorts s in place. Elements that compare equal keep their input order.
func Stable[T any](s []T, cmp func(a, b T) int) {
	n := len(s)
	if n < 2 {
		return
	}

	if n < MinMerge {
		insertionSort(s, 0, n, cmp)
		return
	}

	minRun := minRunLength(n)
	for lo := 0; lo < n; lo += minRun {
		insertionSort(s, lo, min(lo+minRun, n), cmp)
	}

	buf := make([]T, n)
	for width := minRun; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := lo + width
			hi := min(lo+2*width, n)
			if mid < hi {
				merge(s, buf, lo, mid, hi, cmp)
			}
		}
	}
}

// Sorted returns a stably sorted copy of s and leaves s untouched.
func Sorted[T any](s []T, cmp func(a, b T) int) []T {
	out := make([]T, len(s))
	copy(out, s)
	Stable(out, cmp)
	return out
}

// minRunLength picks a run length in [MinMerge/2, MinMerge] such that n/minRun
// is close to, but no larger than, a power of two.
func minRunLength(n int) int {
	r := 0
	for n >= MinMerge {
		r |= n & 1
		n >>= 1
	}
	return n + r
}

func insertionSort[T any](s []T, lo, hi int, cmp func(a, b T) int) {
	for i := lo + 1; i < hi; i++ {
		key := s[i]
		j := i - 1
		// Strict > keeps equal keys in place.
		for j >= lo && cmp(s[j], key) > 0 {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
}

// merge combines the sorted ranges s[lo:mid] and s[mid:hi].
func merge[T any](s, buf []T, lo, mid, hi int, cmp func(a, b T) int) {
	left := buf[lo:mid]
	right := buf[mid:hi]
	copy(left, s[lo:mid])
	copy(right, s[mid:hi])

	i, j, k := 0, 0, lo
	for i < len(left) && j < len(right) {
		if cmp(left[i], right[j]) <= 0 {
			s[k] = left[i]
			i++
		} else {
			s[k] = right[j]
			j++
		}
		k++
	}
	k += copy(s[k:], left[i:])
	copy(s[k:], right[j:])
}
