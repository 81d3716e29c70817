// Structural equality over JSON values.
//
// Arrays are compared as multisets: each element of a must be matched by a
// distinct, not yet consumed element of b, regardless of position. So
// [1,2,2] equals [2,1,2] but not [1,1,2]. Objects ignore key order.
package jsonkv

// Equal reports whether a and b are structurally equal. Scalars compare by
// value; differing kinds are never equal. Number(NaN) is unequal to itself,
// though NaN cannot be stored in a document.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindArray:
		return equalArrays(a.a, b.a)
	case KindObject:
		return equalObjects(a.o, b.o)
	}
	return false
}

func equalArrays(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && Equal(x, y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func equalObjects(a, b *Object) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	for k, x := range a.All() {
		y, ok := b.Get(k)
		if !ok || !Equal(x, y) {
			return false
		}
	}
	return true
}
