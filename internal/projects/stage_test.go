package projects_test

import (
	"errors"
	"testing"

	"github.com/digital-directions/stagegate/internal/projects"
)

func TestStageOrderProgression(t *testing.T) {
	if got := projects.StagePreSales.Next(); got != projects.StageDiscovery {
		t.Errorf("pre_sales next = %s, want discovery", got)
	}
	if got := projects.StageGoLive.Next(); got != projects.StageSupport {
		t.Errorf("go_live next = %s, want support", got)
	}
	if got := projects.StageSupport.Next(); got != "" {
		t.Errorf("support next = %s, want empty (end of lifecycle)", got)
	}
	if got := projects.StagePreSales.Previous(); got != "" {
		t.Errorf("pre_sales previous = %s, want empty (start of lifecycle)", got)
	}
	if got := projects.StageMapping.Previous(); got != projects.StageBobConfig {
		t.Errorf("mapping previous = %s, want bob_config", got)
	}
}

func TestStageIndexAndBefore(t *testing.T) {
	if got := projects.StagePreSales.Index(); got != 0 {
		t.Errorf("pre_sales index = %d, want 0", got)
	}
	if got := projects.Stage("bogus").Index(); got != -1 {
		t.Errorf("unknown stage index = %d, want -1", got)
	}
	if !projects.StageDiscovery.Before(projects.StageUAT) {
		t.Error("discovery should be before uat")
	}
	if projects.StageSupport.Before(projects.StageBuild) {
		t.Error("support should not be before build")
	}
}

// Stage-advanced notifications fire on forward moves only; reverts and
// no-ops stay quiet.
func TestStageAfter(t *testing.T) {
	if !projects.StageUAT.After(projects.StageBuild) {
		t.Error("uat should be after build")
	}
	if projects.StageBuild.After(projects.StageUAT) {
		t.Error("build should not be after uat")
	}
	if projects.StageUAT.After(projects.StageUAT) {
		t.Error("a stage is not after itself")
	}
}

func TestParseStage(t *testing.T) {
	for _, stage := range projects.StageOrder {
		if _, err := projects.ParseStage(string(stage)); err != nil {
			t.Errorf("ParseStage(%q) failed: %v", stage, err)
		}
		if stage.Label() == "" {
			t.Errorf("stage %s has no label", stage)
		}
	}
	if _, err := projects.ParseStage("onboarding"); !errors.Is(err, projects.ErrUnknownStage) {
		t.Errorf("onboarding: error = %v, want ErrUnknownStage", err)
	}
}

func TestStateFor(t *testing.T) {
	tests := []struct {
		name    string
		stage   projects.Stage
		current projects.Stage
		want    projects.StageState
	}{
		{"earlier stage complete", projects.StageDiscovery, projects.StageBuild, projects.StateComplete},
		{"current stage active", projects.StageBuild, projects.StageBuild, projects.StateActive},
		{"later stage locked", projects.StageGoLive, projects.StageBuild, projects.StateLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projects.StateFor(tt.stage, tt.current); got != tt.want {
				t.Errorf("StateFor(%s, %s) = %s, want %s", tt.stage, tt.current, got, tt.want)
			}
		})
	}
}

func TestCreateCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     projects.CreateCommand
		wantErr error
	}{
		{
			name: "valid",
			cmd:  projects.CreateCommand{Name: "Acme Payroll Integration", ClientID: "acme", PayrollSystem: "keypay"},
		},
		{
			name:    "missing name",
			cmd:     projects.CreateCommand{ClientID: "acme", PayrollSystem: "keypay"},
			wantErr: projects.ErrNameRequired,
		},
		{
			name:    "missing client",
			cmd:     projects.CreateCommand{Name: "Acme", PayrollSystem: "keypay"},
			wantErr: projects.ErrClientRequired,
		},
		{
			name:    "unsupported payroll system",
			cmd:     projects.CreateCommand{Name: "Acme", ClientID: "acme", PayrollSystem: "quickbooks"},
			wantErr: projects.ErrInvalidPayrollSystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidPayrollSystem(t *testing.T) {
	for _, s := range projects.PayrollSystems {
		if !projects.ValidPayrollSystem(s) {
			t.Errorf("%s should be a valid payroll system", s)
		}
	}
	if projects.ValidPayrollSystem("") {
		t.Error("empty payroll system should be invalid")
	}
}
