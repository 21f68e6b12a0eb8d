package dto

// PlanRequest asks for the GPAs the remaining semesters need.
type PlanRequest struct {
	Scale           string  `json:"scale"`
	CurrentCGPA     float64 `json:"currentCgpa" validate:"min=0"`
	CompletedUnits  int     `json:"completedUnits" validate:"min=0,max=1000"`
	FutureUnitLoads []int   `json:"futureUnitLoads" validate:"required,min=1,max=16,dive,min=1,max=60"`
	TargetCGPA      float64 `json:"targetCgpa" validate:"min=0"`
	Skew            float64 `json:"skew" validate:"omitempty,gt=0,lt=1"`
}

// ScenarioResult is one distribution of per-semester GPAs.
type ScenarioResult struct {
	Name         string    `json:"name"`
	SemesterGPAs []float64 `json:"semesterGpas"`
	Clamped      bool      `json:"clamped"`
}

// PlanResult is the planner outcome.
type PlanResult struct {
	Scale              string           `json:"scale"`
	TotalFutureUnits   int              `json:"totalFutureUnits"`
	TotalUnits         int              `json:"totalUnits"`
	PointsNeeded       float64          `json:"pointsNeeded"`
	PointsRemaining    float64          `json:"pointsRemaining"`
	RequiredGPA        float64          `json:"requiredGpa"`
	Feasibility        string           `json:"feasibility"`
	Secured            bool             `json:"secured"`
	BestAchievableCGPA float64          `json:"bestAchievableCgpa"`
	Scenarios          []ScenarioResult `json:"scenarios"`
}
