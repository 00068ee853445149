package models

// NL2SQLResult is the structured output requested from the LLM when
// translating a natural-language question into SQL.
type NL2SQLResult struct {
	Query       string  `json:"query"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// NL2SQLResponse carries either the executed query's rows plus the generation
// metadata, or a user-facing error description. Exactly one of the two is set.
type NL2SQLResponse struct {
	Query       string           `json:"query,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
	Confidence  float64          `json:"confidence,omitempty"`
	Results     []map[string]any `json:"results,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Failed reports whether the response is an error payload.
func (r *NL2SQLResponse) Failed() bool {
	return r != nil && r.Error != ""
}
