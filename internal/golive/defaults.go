package golive

// DefaultDeliveryItems returns the stock delivery team go-live checklist.
func DefaultDeliveryItems() []Item {
	return []Item{
		{ID: "delivery_final_sync", Title: "Run final full data sync"},
		{ID: "delivery_verify_mappings", Title: "Verify exported mappings loaded in payroll"},
		{ID: "delivery_monitoring", Title: "Enable integration monitoring and alerting"},
		{ID: "delivery_rollback_plan", Title: "Confirm rollback plan with client"},
		{ID: "delivery_handover_docs", Title: "Publish support handover documentation"},
	}
}

// DefaultClientItems returns the stock client go-live checklist.
func DefaultClientItems() []Item {
	return []Item{
		{ID: "client_data_freeze", Title: "Freeze employee data changes in legacy system"},
		{ID: "client_payroll_approval", Title: "Approve first parallel pay run results"},
		{ID: "client_user_access", Title: "Confirm team access to the new system"},
		{ID: "client_comms", Title: "Notify employees of the cutover date"},
	}
}
