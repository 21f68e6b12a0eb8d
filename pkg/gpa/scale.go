package gpa

import (
	"strings"
)

// Scale selects a grade-to-point table.
type Scale string

const (
	// ScaleFourPoint is the 4.0 scale (A..D, F).
	ScaleFourPoint Scale = "FOUR_POINT"
	// ScaleFivePoint is the 5.0 scale (A..F).
	ScaleFivePoint Scale = "FIVE_POINT"
)

// Letter is a letter grade.
type Letter string

const (
	GradeA Letter = "A"
	GradeB Letter = "B"
	GradeC Letter = "C"
	GradeD Letter = "D"
	GradeE Letter = "E"
	GradeF Letter = "F"
)

type gradePoint struct {
	letter Letter
	points float64
}

type scaleTable struct {
	max    float64
	grades []gradePoint
	// feasibility bands applied to the required equal GPA
	extreme float64
	high    float64
}

var scaleTables = map[Scale]scaleTable{
	ScaleFivePoint: {
		max: 5.0,
		grades: []gradePoint{
			{GradeA, 5.0}, {GradeB, 4.0}, {GradeC, 3.0}, {GradeD, 2.0}, {GradeE, 1.0}, {GradeF, 0.0},
		},
		extreme: 4.8,
		high:    4.0,
	},
	ScaleFourPoint: {
		max: 4.0,
		grades: []gradePoint{
			{GradeA, 4.0}, {GradeB, 3.0}, {GradeC, 2.0}, {GradeD, 1.0}, {GradeF, 0.0},
		},
		extreme: 3.84,
		high:    3.2,
	},
}

// Scales lists the supported scales, largest maximum first.
func Scales() []Scale {
	return []Scale{ScaleFivePoint, ScaleFourPoint}
}

// ParseScale accepts the canonical names as well as "4", "4.0", "5" and "5.0".
func ParseScale(raw string) (Scale, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ScaleFivePoint), "5", "5.0", "FIVE":
		return ScaleFivePoint, nil
	case string(ScaleFourPoint), "4", "4.0", "FOUR":
		return ScaleFourPoint, nil
	default:
		return "", configErr("unknown scale %q", raw)
	}
}

// ParseLetter normalises a letter grade. It does not check scale membership.
func ParseLetter(raw string) Letter {
	return Letter(strings.ToUpper(strings.TrimSpace(raw)))
}

// Valid reports whether the scale is known.
func (s Scale) Valid() bool {
	_, ok := scaleTables[s]
	return ok
}

// Max returns the highest grade point on the scale, or 0 for an unknown scale.
func (s Scale) Max() float64 {
	return scaleTables[s].max
}

// Letters returns the scale's letters ordered from best to worst.
func (s Scale) Letters() []Letter {
	table := scaleTables[s]
	letters := make([]Letter, 0, len(table.grades))
	for _, g := range table.grades {
		letters = append(letters, g.letter)
	}
	return letters
}

// Points resolves a letter grade to its point value on the scale.
func (s Scale) Points(letter Letter) (float64, error) {
	table, ok := scaleTables[s]
	if !ok {
		return 0, configErr("unknown scale %q", s)
	}
	for _, g := range table.grades {
		if g.letter == letter {
			return g.points, nil
		}
	}
	return 0, configErr("grade %q is not defined on the %s scale", letter, s)
}
