package rank

// Scorer rates how well a posting's text matches a keyword query, 0..100.
type Scorer interface {
	Score(jobText, keywords string) float64
}
