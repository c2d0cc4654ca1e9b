package catalog

// Kind distinguishes the two defect trees.
type Kind string

const (
	KindCompileTime Kind = "compile_time"
	KindStyle       Kind = "style"
)

// Difficulty adjusts how many defects a single exercise carries.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultBaseCount is the base defect count before difficulty adjustment.
const DefaultBaseCount = 4

// DefectSpec is one catalog entry selected for injection into an exercise.
type DefectSpec struct {
	Kind                Kind   `json:"kind"`
	Category            string `json:"category"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	ImplementationGuide string `json:"implementation_guide,omitempty"`
}

// Key returns the identity used to match defects across oracle calls.
// Two defects are the same iff kind and name agree (case handled by caller).
func (d DefectSpec) Key() string {
	return string(d.Kind) + "/" + d.Name
}

// Categories lists the available category names per tree.
type Categories struct {
	CompileTime []string
	Style       []string
}

// Selection names the categories a session draws from.
type Selection struct {
	CompileTime []string
	Style       []string
}

// Empty reports whether no categories are selected.
func (s Selection) Empty() bool {
	return len(s.CompileTime) == 0 && len(s.Style) == 0
}

// entry is the on-disk record shape inside a category list.
type entry struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	ImplementationGuide string `json:"implementation_guide,omitempty"`
}

// AdjustedCount applies the difficulty adjustment to a base defect count:
// easy drops two (floor 2), hard adds two, medium keeps the base.
func AdjustedCount(base int, difficulty Difficulty) int {
	switch difficulty {
	case DifficultyEasy:
		return max(2, base-2)
	case DifficultyHard:
		return base + 2
	default:
		return base
	}
}
