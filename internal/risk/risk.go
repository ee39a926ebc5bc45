// Package risk maps connection scores onto risk buckets.
package risk

// HighRiskThreshold is the inclusive score at which a connection is treated as high risk.
const HighRiskThreshold = 0.6

type Bucket int

const (
	LowRisk Bucket = iota
	HighRisk
)

func (b Bucket) String() string {
	if b == HighRisk {
		return "high-risk"
	}
	return "low-risk"
}

// Classify is stateless: the same score always lands in the same bucket.
func Classify(score float64) Bucket {
	if score >= HighRiskThreshold {
		return HighRisk
	}
	return LowRisk
}
