package result

// Status is the derived pass/fail state of a result.
// StatusPending only occurs before any percentage has been computed,
// i.e. when the aggregate maximum is absent.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusPending Status = "pending"
)

// passMark is the minimum aggregate percentage for a pass.
const passMark = 40

// gradeScale maps inclusive percentage lower bounds to letter grades.
// The same table serves both per-subject and aggregate grading.
var gradeScale = []struct {
	floor float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
	{40, "D"},
}

// GradeFor returns the letter grade for a percentage.
func GradeFor(pct float64) string {
	for _, band := range gradeScale {
		if pct >= band.floor {
			return band.grade
		}
	}
	return "F"
}

// DeriveSubject computes the grade for a single subject. It returns the empty
// string when maxMarks is absent or zero (nothing to grade, no division).
func DeriveSubject(marks, maxMarks float64) string {
	if maxMarks <= 0 {
		return ""
	}
	return GradeFor(100 * marks / maxMarks)
}

// Aggregate holds the derived fields of a whole result. The fields are a pure
// function of the inputs and are never settable by callers.
type Aggregate struct {
	Percentage float64
	Grade      string
	Status     Status
}

// DeriveAggregate computes percentage, grade and status for a total over a
// maximum. A zero or absent maximum yields StatusPending with no percentage
// or grade.
func DeriveAggregate(total, maxTotal float64) Aggregate {
	if maxTotal <= 0 {
		return Aggregate{Status: StatusPending}
	}
	pct := 100 * total / maxTotal
	agg := Aggregate{
		Percentage: pct,
		Grade:      GradeFor(pct),
		Status:     StatusFail,
	}
	if pct >= passMark {
		agg.Status = StatusPass
	}
	return agg
}
