//go:build !gocv
// +build !gocv

package config

// DefaultStrategy is the pure-Go solver when the binary is built without OpenCV.
const DefaultStrategy = StrategyFastMarching
