//go:build tools
// +build tools

// Package social_network pins the code generators used by go:generate (mockgen) in go.mod.
package social_network

import (
	_ "go.uber.org/mock/mockgen"
)
