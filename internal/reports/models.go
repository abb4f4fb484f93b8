package reports

// Report formats
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// ReportRequest describes a meal history export: an inclusive local date
// range and an output format.
type ReportRequest struct {
	From   string // YYYY-MM-DD
	To     string // YYYY-MM-DD
	Format string // "pdf" or "csv"
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
