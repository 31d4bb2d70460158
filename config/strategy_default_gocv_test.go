//go:build gocv
// +build gocv

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultStrategy_WithOpenCV(t *testing.T) {
	assert.Equal(t, StrategyOpenCV, DefaultStrategy)
}
