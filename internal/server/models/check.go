package models

// Protocols and methods a check may be configured with.
var (
	CheckProtocols = []string{"http", "https"}
	CheckMethods   = []string{"post", "get", "put", "delete"}
)

// Check is a monitored target owned by one user, keyed in the "checks"
// collection by ID. While a check exists its ID appears in exactly one
// user's Checks list.
type Check struct {
	ID             string `json:"id"`
	UserPhone      string `json:"userPhone"`
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}
