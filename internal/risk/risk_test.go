package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Bucket
	}{
		{0, LowRisk},
		{0.25, LowRisk},
		{0.59, LowRisk},
		{0.5999999, LowRisk},
		{0.6, HighRisk},
		{0.75, HighRisk},
		{1, HighRisk},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestClassifyMatchesThresholdOverRange(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		s := float64(i) / 1000
		assert.Equal(t, s >= HighRiskThreshold, Classify(s) == HighRisk, "score %v", s)
	}
}

func TestBucketString(t *testing.T) {
	assert.Equal(t, "high-risk", HighRisk.String())
	assert.Equal(t, "low-risk", LowRisk.String())
}
