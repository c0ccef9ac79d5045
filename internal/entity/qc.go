package entity

// QCResult reports whether a capture is usable. Reasons is empty iff Passed.
type QCResult struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons"`
}
