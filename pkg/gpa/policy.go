package gpa

// MaxScore is the highest combined raw score a course can carry.
const MaxScore = 100.0

// ScorePolicy maps a combined raw score to a letter grade.
type ScorePolicy interface {
	Letter(score float64) Letter
}

// Threshold awards Letter to any score at or above Min.
type Threshold struct {
	Min    float64
	Letter Letter
}

// ThresholdPolicy grades a score against descending thresholds. Scores below
// every threshold receive F.
type ThresholdPolicy []Threshold

// Letter implements ScorePolicy.
func (p ThresholdPolicy) Letter(score float64) Letter {
	for _, t := range p {
		if score >= t.Min {
			return t.Letter
		}
	}
	return GradeF
}

var (
	fivePointPolicy = ThresholdPolicy{
		{Min: 70, Letter: GradeA},
		{Min: 60, Letter: GradeB},
		{Min: 50, Letter: GradeC},
		{Min: 45, Letter: GradeD},
		{Min: 40, Letter: GradeE},
	}
	fourPointPolicy = ThresholdPolicy{
		{Min: 85, Letter: GradeA},
		{Min: 70, Letter: GradeB},
		{Min: 60, Letter: GradeC},
		{Min: 50, Letter: GradeD},
	}
)

// DefaultPolicy returns the standard thresholds for a scale, or nil when the
// scale is unknown.
func DefaultPolicy(scale Scale) ThresholdPolicy {
	var src ThresholdPolicy
	switch scale {
	case ScaleFivePoint:
		src = fivePointPolicy
	case ScaleFourPoint:
		src = fourPointPolicy
	default:
		return nil
	}
	out := make(ThresholdPolicy, len(src))
	copy(out, src)
	return out
}
