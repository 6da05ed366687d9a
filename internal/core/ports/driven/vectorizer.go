package driven

// Vectorizer converts text into a fixed-length numeric vector.
// Any implementation may be swapped in as long as the output length
// is constant and vectors are unit length (or zero for empty input).
type Vectorizer interface {
	// Dimensions returns the length of every vector produced.
	Dimensions() int

	// Vectorize returns the feature vector for text.
	// Identical text must always yield an identical vector.
	Vectorize(text string) []float64
}
