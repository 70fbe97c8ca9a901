package doc

import (
	"cmp"
	"math"
	"strings"
)

// typeRank orders kinds the way MongoDB orders BSON types when sorting.
// Int and Float share a rank so numbers compare by value.
func typeRank(v Value) int {
	switch v.(type) {
	case nil, Null:
		return 0
	case Int, Float:
		return 1
	case String:
		return 2
	case Document:
		return 3
	case Array:
		return 4
	case Bool:
		return 5
	case Time:
		return 6
	default:
		return 7
	}
}

// Compare defines a total order over values: null < numbers < strings <
// documents < arrays < booleans < times. Within a kind values compare
// naturally; documents and arrays compare element by element.
func Compare(a, b Value) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch av := a.(type) {
	case nil, Null:
		return 0
	case Int:
		if bv, ok := b.(Int); ok {
			return cmp.Compare(av, bv)
		}
		return cmp.Compare(float64(av), toFloat(b))
	case Float:
		return cmp.Compare(float64(av), toFloat(b))
	case String:
		return strings.Compare(string(av), string(b.(String)))
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	case Time:
		return av.UTC().Compare(b.(Time).UTC())
	case Array:
		bv := b.(Array)
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(av), len(bv))
	case Document:
		bv := b.(Document)
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := CompareKeys(av[i].Key, bv[i].Key); c != 0 {
				return c
			}
			if c := Compare(av[i].Value, bv[i].Value); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(av), len(bv))
	default:
		return 0
	}
}

// Equal reports deep equality. Int and Float holding the same number are
// equal; Documents must match field by field in order.
func Equal(a, b Value) bool {
	return typeRank(a) == typeRank(b) && Compare(a, b) == 0
}

func toFloat(v Value) float64 {
	switch n := v.(type) {
	case Int:
		return float64(n)
	case Float:
		return float64(n)
	default:
		return math.NaN()
	}
}
