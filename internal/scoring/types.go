package scoring

// DefaultSufficiencyThreshold is the identified percentage at or above
// which a review counts as sufficient.
const DefaultSufficiencyThreshold = 60.0

// IdentifiedProblem is a ground-truth defect the student's review
// covered, with the oracle's judgment of how accurately.
type IdentifiedProblem struct {
	Problem        string  `json:"problem"`
	StudentComment string  `json:"student_comment"`
	Accuracy       float64 `json:"accuracy"`
	Feedback       string  `json:"feedback"`
}

// MissedProblem is a ground-truth defect the review did not cover.
type MissedProblem struct {
	Problem string `json:"problem"`
	Hint    string `json:"hint"`
}

// FalsePositive is a review comment that matches no ground-truth defect.
type FalsePositive struct {
	StudentComment string `json:"student_comment"`
	Explanation    string `json:"explanation"`
}

// ReviewAnalysis scores one student review against the ground truth.
// Counts and percentage are recomputed locally from the identified set
// so a miscounting oracle cannot skew them. The sufficiency verdict
// honors the oracle's explicit review_sufficient flag when present and
// otherwise compares the percentage against the threshold, inclusive.
type ReviewAnalysis struct {
	Identified     []IdentifiedProblem `json:"identified_problems"`
	Missed         []MissedProblem     `json:"missed_problems"`
	FalsePositives []FalsePositive     `json:"false_positives"`

	IdentifiedCount      int     `json:"identified_count"`
	TotalCount           int     `json:"total_problems"`
	IdentifiedPercentage float64 `json:"identified_percentage"`
	QualityScore         float64 `json:"review_quality_score"`
	IsSufficient         bool    `json:"review_sufficient"`
	Feedback             string  `json:"feedback"`
}

// wireAnalysis mirrors the oracle's JSON. The sufficiency flag is a
// pointer so presence can be distinguished from an explicit false.
type wireAnalysis struct {
	Identified     []IdentifiedProblem `json:"identified_problems"`
	Missed         []MissedProblem     `json:"missed_problems"`
	FalsePositives []FalsePositive     `json:"false_positives"`
	QualityScore   float64             `json:"review_quality_score"`
	Sufficient     *bool               `json:"review_sufficient"`
	Feedback       string              `json:"feedback"`
}

// finalize derives counts and the verdict. An empty ground truth scores
// 100 percent.
func (a *ReviewAnalysis) finalize(total int, threshold float64, explicit *bool) {
	a.IdentifiedCount = len(a.Identified)
	a.TotalCount = total
	if total == 0 {
		a.IdentifiedPercentage = 100
	} else {
		a.IdentifiedPercentage = 100 * float64(a.IdentifiedCount) / float64(total)
	}
	if explicit != nil {
		a.IsSufficient = *explicit
	} else {
		a.IsSufficient = a.IdentifiedPercentage >= threshold
	}
}
