package card

// Stage is one state of the recipient access sequence. Progression is
// strictly forward: locked → intro → maze → ransomware → envelope →
// celebration, and no stage is revisited once left.
type Stage string

const (
	StageLocked      Stage = "locked"
	StageIntro       Stage = "intro"
	StageMaze        Stage = "maze"
	StageRansomware  Stage = "ransomware"
	StageEnvelope    Stage = "envelope"
	StageCelebration Stage = "celebration"
)

var stageOrder = map[Stage]int{
	StageLocked:      0,
	StageIntro:       1,
	StageMaze:        2,
	StageRansomware:  3,
	StageEnvelope:    4,
	StageCelebration: 5,
}

// Before reports whether s comes strictly earlier than other in the
// access sequence.
func (s Stage) Before(other Stage) bool {
	return stageOrder[s] < stageOrder[other]
}

func (s Stage) String() string { return string(s) }
