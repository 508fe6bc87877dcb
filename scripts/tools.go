//go:build tools
// +build tools

// Package tools tracks tool dependencies for the project
package tools

import (
	_ "github.com/swaggo/swag/cmd/swag"
)

//go:generate go install github.com/swaggo/swag/cmd/swag
