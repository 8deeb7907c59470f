package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction. Anything other than a
// case-insensitive "ASC" collapses to "DESC".
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a caller-supplied column name against the
// entity's whitelist. Unknown or empty input falls back to defaultField,
// which keeps user input out of the ORDER BY clause.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	column := strings.TrimSpace(sortField)
	if column == "" || !allowedFields[column] {
		return defaultField
	}
	return column
}

// sortable builds a whitelist from the base columns every table carries
// plus the entity-specific ones.
func sortable(fields ...string) map[string]bool {
	allowed := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		allowed[f] = true
	}
	return allowed
}

// Per-entity sort whitelists. Each maps the query-string column names the
// list endpoints accept.
var (
	CommonSortFields = sortable()

	UserSortFields   = sortable("username", "email", "display_name", "role", "status", "last_login_at")
	TenantSortFields = sortable("code", "name", "status")

	InvoiceSortFields        = sortable("invoice_number", "customer_name", "status", "total", "issued_at", "due_date", "paid_at")
	QuotationSortFields      = sortable("quotation_number", "customer_name", "status", "total", "valid_until", "sent_at")
	OrderSortFields          = sortable("order_number", "customer_name", "status", "total", "confirmed_at", "fulfilled_at")
	PaymentRequestSortFields = sortable("request_number", "customer_name", "status", "amount", "decided_at", "paid_at")

	AssetSortFields     = sortable("asset_number", "name", "category", "status", "acquisition_cost", "acquired_at")
	LiabilitySortFields = sortable("liability_number", "name", "type", "status", "outstanding", "incurred_at", "due_date")
	PayslipSortFields   = sortable("payslip_number", "employee_name", "period_year", "period_month", "status", "gross_pay", "net_pay")

	ExpenseSortFields = sortable("expense_number", "category", "status", "amount", "incurred_at", "paid_at")
	RevenueSortFields = sortable("revenue_number", "category", "status", "amount", "earned_at", "received_at")

	RegistrationSortFields       = sortable("registration_number", "customer_name", "unit_code", "status", "monthly_amount", "start_date", "end_date")
	MaintenanceRequestSortFields = sortable("request_number", "customer_name", "unit_code", "priority", "status", "scheduled_for", "completed_at")
	CampaignSortFields           = sortable("campaign_number", "name", "status", "scheduled_for", "completed_at")
)
