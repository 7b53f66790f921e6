// Package snapshot holds the scan-progress samples a status timeline is drawn from.
package snapshot

// Point is one progress sample: X is elapsed seconds since the scan started,
// Y is the percentage of the scan completed at that moment.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Series is an ordered list of samples for a single status.
// Order is the producer's; nothing here sorts or validates it.
type Series []Point

// Extract splits the series into parallel label (x) and value (y) slices.
// Both slices always have len(s) elements, including for an empty series.
func Extract(s Series) (labels, values []float64) {
	labels = make([]float64, 0, len(s))
	values = make([]float64, 0, len(s))
	for _, p := range s {
		labels = append(labels, p.X)
		values = append(values, p.Y)
	}
	return labels, values
}
