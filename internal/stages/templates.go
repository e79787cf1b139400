package stages

import "encoding/json"

// TemplatePayload returns the seeded payload for a newly initialized stage
// artifact. Every stage begins from a stock template; the client then fills
// it in through autosave.
func TemplatePayload(stageType StageType) (json.RawMessage, error) {
	var p Payload
	switch stageType {
	case StageDiscovery:
		p = discoveryTemplate()
	case StageBobConfig:
		p = bobConfigTemplate()
	case StageUAT:
		p = uatTemplate()
	default:
		return nil, ErrUnknownStageType
	}
	return json.Marshal(p)
}

func discoveryTemplate() *DiscoveryPayload {
	return &DiscoveryPayload{
		Sections: []DiscoverySection{
			{
				ID:    "organisation",
				Title: "Organisation",
				Questions: []DiscoveryQuestion{
					{ID: "org_employee_count", Prompt: "How many employees will be synced?", Kind: "text", Required: true},
					{ID: "org_entities", Prompt: "How many legal entities do you operate?", Kind: "text", Required: true},
					{ID: "org_countries", Prompt: "Which countries do you employ people in?", Kind: "text", Required: true},
				},
			},
			{
				ID:    "payroll",
				Title: "Payroll",
				Questions: []DiscoveryQuestion{
					{ID: "pay_frequency", Prompt: "What is your pay run frequency?", Kind: "select", Required: true, Options: []string{"Weekly", "Fortnightly", "Monthly"}},
					{ID: "pay_multiple_calendars", Prompt: "Do you run multiple pay calendars?", Kind: "boolean", Required: true},
					{ID: "pay_current_provider", Prompt: "Who is your current payroll provider?", Kind: "text", Required: true},
					{ID: "pay_cutover_date", Prompt: "What is your target cutover date?", Kind: "text", Required: false},
				},
			},
			{
				ID:    "leave",
				Title: "Leave Management",
				Questions: []DiscoveryQuestion{
					{ID: "leave_policies", Prompt: "List the leave policies in use.", Kind: "text", Required: true},
					{ID: "leave_balances_source", Prompt: "Where are leave balances currently tracked?", Kind: "select", Required: true, Options: []string{"HR system", "Payroll system", "Spreadsheet", "Other"}},
					{ID: "leave_loading", Prompt: "Does any leave type attract leave loading?", Kind: "boolean", Required: false},
				},
			},
		},
	}
}

func bobConfigTemplate() *BobConfigPayload {
	return &BobConfigPayload{
		Items: []ConfigTask{
			{ID: "cfg_service_user", Title: "Create integration service user", Description: "Provision a dedicated service user with API access."},
			{ID: "cfg_work_sites", Title: "Configure work sites", Description: "Verify every office and remote site exists as a named list entry."},
			{ID: "cfg_leave_policies", Title: "Configure leave policy types", Description: "Create each leave policy that payroll must receive."},
			{ID: "cfg_employment_types", Title: "Configure employment contract types", Description: "Full-time, part-time, casual, and fixed-term contracts."},
			{ID: "cfg_payroll_fields", Title: "Enable payroll fields", Description: "Expose salary, pay period, and bank detail fields to the API."},
			{ID: "cfg_permission_groups", Title: "Review permission groups", Description: "Confirm the service user can read required employee categories."},
		},
	}
}

func uatTemplate() *UATPayload {
	return &UATPayload{
		Scenarios: []UATScenario{
			{ID: "uat_new_starter", Title: "New starter sync", Description: "Create an employee and verify it appears in payroll within one sync cycle."},
			{ID: "uat_termination", Title: "Termination sync", Description: "Terminate a test employee and verify the cessation reason maps correctly."},
			{ID: "uat_leave_request", Title: "Leave request sync", Description: "Approve a leave request and verify the leave category and units in payroll."},
			{ID: "uat_salary_change", Title: "Salary change sync", Description: "Apply a salary change and verify the next pay run picks it up."},
			{ID: "uat_bank_details", Title: "Bank detail update", Description: "Update bank details and verify payment routing in payroll."},
			{ID: "uat_site_transfer", Title: "Site transfer", Description: "Move an employee between sites and verify the location mapping."},
		},
	}
}
