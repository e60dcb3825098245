package textile

// Roll grades by defect points per 100 m² (four-point system).
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"

	gradeALimit = 20
	gradeBLimit = 40
)

// PointsPer100 normalises defect points to 100 m² of fabric. A non-positive
// area yields 0.
func PointsPer100(points int, areaSqm float64) float64 {
	if areaSqm <= 0 {
		return 0
	}
	return float64(points) * 100 / areaSqm
}

// Grade maps normalised defect points to a roll grade.
func Grade(pointsPer100 float64) string {
	switch {
	case pointsPer100 <= gradeALimit:
		return GradeA
	case pointsPer100 <= gradeBLimit:
		return GradeB
	default:
		return GradeC
	}
}

// Acceptable reports whether a grade passes inspection.
func Acceptable(grade string) bool {
	return grade == GradeA || grade == GradeB
}
