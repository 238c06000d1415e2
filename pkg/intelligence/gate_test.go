package intelligence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindpalace/localmem-go/pkg/intelligence"
)

func TestImportanceGateDefaults(t *testing.T) {
	gate := intelligence.NewImportanceGate(0)

	assert.Equal(t, intelligence.DefaultImportanceThreshold, gate.Threshold)
}

func TestImportanceGateAccept(t *testing.T) {
	gate := intelligence.NewImportanceGate(0)

	assert.True(t, gate.Accept(0.9))
	assert.True(t, gate.Accept(0.1), "threshold itself passes")
	assert.False(t, gate.Accept(0.05))
	assert.False(t, gate.Accept(0.0))
}

func TestImportanceGateClampsOutOfRange(t *testing.T) {
	gate := intelligence.NewImportanceGate(0.5)

	assert.True(t, gate.Accept(7.0), "above-range score clamps to 1")
	assert.False(t, gate.Accept(-3.0), "below-range score clamps to 0")
}

func TestImportanceGateCustomThreshold(t *testing.T) {
	gate := intelligence.NewImportanceGate(0.8)

	assert.False(t, gate.Accept(0.7))
	assert.True(t, gate.Accept(0.8))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, intelligence.ClampScore(-0.5))
	assert.Equal(t, 1.0, intelligence.ClampScore(1.5))
	assert.Equal(t, 0.42, intelligence.ClampScore(0.42))
}
