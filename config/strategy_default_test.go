//go:build !gocv
// +build !gocv

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultStrategy_WithoutOpenCV(t *testing.T) {
	assert.Equal(t, StrategyFastMarching, DefaultStrategy)
}
