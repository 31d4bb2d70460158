//go:build gocv
// +build gocv

package config

// DefaultStrategy is OpenCV's Telea inpainting when the binary links gocv.
const DefaultStrategy = StrategyOpenCV
