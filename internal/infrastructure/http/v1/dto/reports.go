package dto

// AgingReportRequest selects the report cutoff, YYYY-MM-DD. Empty means today.
type AgingReportRequest struct {
	Cutoff string `form:"cutoff"`
}
