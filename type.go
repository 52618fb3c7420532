package geoforward

type Region int

const (
	LeftHalfSpace Region = iota
	InsideDike
	RightHalfSpace
)

func (r Region) String() string {
	switch r {
	case LeftHalfSpace:
		return "left"
	case InsideDike:
		return "dike"
	case RightHalfSpace:
		return "right"
	}
	return "unknown"
}

// Classify places a coordinate across the dike. The upper boundaries are
// inclusive: y == 0 is left of the dike, y == thickness is inside it.
func Classify(y, thickness float64) Region {
	if y <= 0 {
		return LeftHalfSpace
	}
	if y <= thickness {
		return InsideDike
	}
	return RightHalfSpace
}

type ArrayType string

const (
	PolePole          ArrayType = "KN"
	Schlumberger      ArrayType = "SL"
	PoleDipoleForward ArrayType = "OK"
	PoleDipoleReverse ArrayType = "UK"
)

var AllArrays = []ArrayType{PolePole, Schlumberger, PoleDipoleForward, PoleDipoleReverse}

func ParseArrayType(s string) (ArrayType, bool) {
	for _, a := range AllArrays {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}
