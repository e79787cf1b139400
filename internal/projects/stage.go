package projects

import "fmt"

// Stage identifies one step of the fixed delivery lifecycle.
type Stage string

// Lifecycle stages in delivery order.
const (
	StagePreSales     Stage = "pre_sales"
	StageDiscovery    Stage = "discovery"
	StageProvisioning Stage = "provisioning"
	StageBobConfig    Stage = "bob_config"
	StageMapping      Stage = "mapping"
	StageBuild        Stage = "build"
	StageUAT          Stage = "uat"
	StageGoLive       Stage = "go_live"
	StageSupport      Stage = "support"
)

// StageOrder lists every lifecycle stage in delivery order.
var StageOrder = []Stage{
	StagePreSales,
	StageDiscovery,
	StageProvisioning,
	StageBobConfig,
	StageMapping,
	StageBuild,
	StageUAT,
	StageGoLive,
	StageSupport,
}

var stageLabels = map[Stage]string{
	StagePreSales:     "Pre-Sales",
	StageDiscovery:    "Discovery",
	StageProvisioning: "Provisioning",
	StageBobConfig:    "System Configuration",
	StageMapping:      "Data Mapping",
	StageBuild:        "Build",
	StageUAT:          "User Acceptance Testing",
	StageGoLive:       "Go-Live",
	StageSupport:      "Support",
}

// ParseStage validates a stage slug.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if _, ok := stageLabels[stage]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStage, s)
	}
	return stage, nil
}

// Label returns the display name for the stage.
func (s Stage) Label() string {
	return stageLabels[s]
}

// Index returns the stage's position in the lifecycle, or -1 if unknown.
func (s Stage) Index() int {
	for i, stage := range StageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the following lifecycle stage, or empty at the end.
func (s Stage) Next() Stage {
	i := s.Index()
	if i < 0 || i == len(StageOrder)-1 {
		return ""
	}
	return StageOrder[i+1]
}

// Previous returns the preceding lifecycle stage, or empty at the start.
func (s Stage) Previous() Stage {
	i := s.Index()
	if i <= 0 {
		return ""
	}
	return StageOrder[i-1]
}

// Before reports whether s precedes other in the lifecycle.
func (s Stage) Before(other Stage) bool {
	return s.Index() < other.Index()
}

// After reports whether s follows other in the lifecycle.
func (s Stage) After(other Stage) bool {
	return s.Index() > other.Index()
}

// StageState describes a stage's position relative to a project's current stage.
type StageState string

const (
	StateLocked   StageState = "locked"
	StateActive   StageState = "active"
	StateComplete StageState = "complete"
)

// StateFor derives a stage's state given the project's current stage.
// Stages before the current stage are complete, the current one is active,
// and later stages are locked.
func StateFor(stage, current Stage) StageState {
	switch {
	case stage.Index() < current.Index():
		return StateComplete
	case stage == current:
		return StateActive
	default:
		return StateLocked
	}
}
