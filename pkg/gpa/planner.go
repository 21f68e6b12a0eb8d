package gpa

// ClassicSkew is the ±10% spread used for the two skewed scenarios.
const ClassicSkew = 0.1

// Feasibility classifies the equal-split GPA a target requires.
type Feasibility string

const (
	FeasibilityAchievable           Feasibility = "ACHIEVABLE"
	FeasibilityHighPerformance      Feasibility = "HIGH_PERFORMANCE_NEEDED"
	FeasibilityExtremelyChallenging Feasibility = "EXTREMELY_CHALLENGING"
	FeasibilityInfeasible           Feasibility = "INFEASIBLE"
)

// ScenarioName identifies a planning scenario.
type ScenarioName string

const (
	ScenarioEqual       ScenarioName = "EQUAL"
	ScenarioStartLower  ScenarioName = "START_LOWER_FINISH_HIGHER"
	ScenarioStartHigher ScenarioName = "START_HIGHER_FINISH_LOWER"
)

// PlanningRequest asks what GPAs the remaining semesters need to reach TargetCGPA.
type PlanningRequest struct {
	Scale           Scale
	CurrentCGPA     float64
	CompletedUnits  int
	FutureUnitLoads []int
	TargetCGPA      float64
	// Skew spreads the two skewed scenarios around the equal split. Zero
	// selects ClassicSkew.
	Skew float64
}

// Scenario is one distribution of required GPAs, one per future semester.
type Scenario struct {
	Name         ScenarioName
	SemesterGPAs []float64
	// Clamped is set when one semester was capped at the scale maximum and
	// the other was rebalanced.
	Clamped bool
}

// PlanningResult holds the required GPAs and the feasibility verdict.
type PlanningResult struct {
	Scale            Scale
	TotalFutureUnits int
	TotalUnits       int
	PointsNeeded     float64
	PointsRemaining  float64
	EqualGPA         float64
	Equal            Scenario
	// StartLower and StartHigher are only produced for exactly two semesters.
	StartLower  *Scenario
	StartHigher *Scenario
	Feasibility Feasibility
	// BestAchievableCGPA assumes every future semester scores the maximum.
	BestAchievableCGPA float64
	// Secured is set when the target is already met whatever the future GPAs.
	Secured bool
}

// Err returns ErrInfeasibleTarget for an infeasible plan.
func (r PlanningResult) Err() error {
	if r.Feasibility == FeasibilityInfeasible {
		return ErrInfeasibleTarget
	}
	return nil
}

// Plan solves backward from a target CGPA to per-semester GPA requirements.
func Plan(req PlanningRequest) (PlanningResult, error) {
	if err := req.validate(); err != nil {
		return PlanningResult{}, err
	}
	skew := req.Skew
	if skew == 0 {
		skew = ClassicSkew
	}
	maxGPA := req.Scale.Max()

	futureUnits := 0
	for _, units := range req.FutureUnitLoads {
		futureUnits += units
	}
	totalUnits := req.CompletedUnits + futureUnits
	pointsNeeded := req.TargetCGPA * float64(totalUnits)
	pointsRemaining := pointsNeeded - req.CurrentCGPA*float64(req.CompletedUnits)
	equalGPA := pointsRemaining / float64(futureUnits)
	best := (req.CurrentCGPA*float64(req.CompletedUnits) + maxGPA*float64(futureUnits)) / float64(totalUnits)

	result := PlanningResult{
		Scale:              req.Scale,
		TotalFutureUnits:   futureUnits,
		TotalUnits:         totalUnits,
		PointsNeeded:       pointsNeeded,
		PointsRemaining:    pointsRemaining,
		EqualGPA:           equalGPA,
		Equal:              equalScenario(equalGPA, len(req.FutureUnitLoads)),
		Feasibility:        classify(req.Scale, equalGPA),
		BestAchievableCGPA: best,
		Secured:            equalGPA <= 0,
	}

	if len(req.FutureUnitLoads) == 2 {
		u1 := float64(req.FutureUnitLoads[0])
		u2 := float64(req.FutureUnitLoads[1])
		lower := startLower(equalGPA, pointsRemaining, u1, u2, skew, maxGPA)
		higher := startHigher(equalGPA, pointsRemaining, u1, u2, skew, maxGPA)
		result.StartLower = &lower
		result.StartHigher = &higher
	}
	return result, nil
}

func (req PlanningRequest) validate() error {
	if !req.Scale.Valid() {
		return configErr("unknown scale %q", req.Scale)
	}
	maxGPA := req.Scale.Max()
	if req.CurrentCGPA < 0 || req.CurrentCGPA > maxGPA {
		return configErr("current cgpa %g outside 0..%g", req.CurrentCGPA, maxGPA)
	}
	if req.TargetCGPA < 0 || req.TargetCGPA > maxGPA {
		return configErr("target cgpa %g outside 0..%g", req.TargetCGPA, maxGPA)
	}
	if req.CompletedUnits < 0 {
		return configErr("completed units cannot be negative, got %d", req.CompletedUnits)
	}
	if len(req.FutureUnitLoads) == 0 {
		return configErr("at least one future semester is required")
	}
	total := req.CompletedUnits
	for i, units := range req.FutureUnitLoads {
		if units <= 0 {
			return configErr("future semester %d: units must be positive, got %d", i+1, units)
		}
		var ok bool
		if total, ok = addUnits(total, units); !ok {
			return configErr("total units overflow at future semester %d", i+1)
		}
	}
	if req.Skew < 0 || req.Skew >= 1 {
		return configErr("skew %g outside [0, 1)", req.Skew)
	}
	return nil
}

func equalScenario(gpa float64, semesters int) Scenario {
	gpas := make([]float64, semesters)
	for i := range gpas {
		gpas[i] = gpa
	}
	return Scenario{Name: ScenarioEqual, SemesterGPAs: gpas}
}

// startLower asks less of the first semester. If the second semester would
// then need more than the maximum, it is capped and the first absorbs the rest.
func startLower(equalGPA, remaining, u1, u2, skew, maxGPA float64) Scenario {
	s := Scenario{Name: ScenarioStartLower}
	sem1 := equalGPA * (1 - skew)
	sem2 := (remaining - sem1*u1) / u2
	if sem2 > maxGPA {
		sem2 = maxGPA
		sem1 = (remaining - sem2*u2) / u1
		s.Clamped = true
	}
	s.SemesterGPAs = []float64{sem1, sem2}
	return s
}

// startHigher asks more of the first semester, capped at the maximum.
func startHigher(equalGPA, remaining, u1, u2, skew, maxGPA float64) Scenario {
	s := Scenario{Name: ScenarioStartHigher}
	sem1 := equalGPA * (1 + skew)
	if sem1 > maxGPA {
		sem1 = maxGPA
		s.Clamped = true
	}
	sem2 := (remaining - sem1*u1) / u2
	s.SemesterGPAs = []float64{sem1, sem2}
	return s
}

func classify(scale Scale, equalGPA float64) Feasibility {
	table := scaleTables[scale]
	switch {
	case equalGPA > table.max:
		return FeasibilityInfeasible
	case equalGPA >= table.extreme:
		return FeasibilityExtremelyChallenging
	case equalGPA >= table.high:
		return FeasibilityHighPerformance
	default:
		return FeasibilityAchievable
	}
}
