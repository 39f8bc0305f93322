package mood

// Shape tags which representation of a record is authoritative.
type Shape string

const (
	ShapeCategorical Shape = "categorical"
	ShapeNumeric     Shape = "numeric"
)

// Normalized is the canonical view of one record.
type Normalized struct {
	Shape  Shape
	Label  Mood // best mood; the parsed label for categorical records
	Vector Vector
}

// Normalize maps a record to its canonical vector and best mood.
//
// Categorical records yield a one-hot vector. Numeric records yield their
// fields (unset = 0) and the strict argmax in dimension order, starting
// below zero so an all-zero record resolves to Angry. A record with neither
// a label nor any numeric field resolves to None.
func Normalize(r Record) Normalized {
	if r.MoodRaw != nil {
		if m, ok := ParseMood(*r.MoodRaw); ok {
			var v Vector
			v.set(m, 1)
			return Normalized{Shape: ShapeCategorical, Label: m, Vector: v}
		}
	}

	n := Normalized{Shape: ShapeNumeric, Label: None}
	if !r.hasNumeric() {
		return n
	}

	best := -1.0
	for _, m := range Dimensions {
		var x float64
		if p := r.Field(m); p != nil {
			x = *p
		}
		n.Vector.set(m, x)
		if x > best {
			best = x
			n.Label = m
		}
	}
	return n
}

// IsSadForStreak is the streak predicate: a "sad" label, or for
// non-categorical records a numeric sad score above zero. It is narrower
// than the argmax, so sad=3 happy=5 still counts as sad here.
func IsSadForStreak(r Record) bool {
	if r.MoodRaw != nil {
		if m, ok := ParseMood(*r.MoodRaw); ok {
			return m == Sad
		}
	}
	return r.Sad != nil && *r.Sad > 0
}
