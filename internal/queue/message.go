package queue

// AnalyzeJobMsg is the payload published to the analyze queue when a client
// requests emotion analysis for a product's reviews.
type AnalyzeJobMsg struct {
	JobID      string `json:"job_id"`
	ParentASIN string `json:"parent_asin"`
}
