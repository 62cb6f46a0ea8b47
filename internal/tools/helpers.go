// Package tools implements the MCP tool handlers for the equation solver.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes two methods:
// - Definition() returns the mcp.Tool schema
// - Handle() processes a CallToolRequest
//
// User mistakes (a malformed equation, an unknown format) are reported with
// mcp.NewToolResultError; Handle only returns a Go error for server faults.
package tools

import (
	"github.com/HendryAvila/computor/internal/display"
	"github.com/mark3labs/mcp-go/mcp"
)

// Settings carries the display preferences shared by the solver tools.
type Settings struct {
	MaxDenominator int
	GraphWidth     int
	GraphHeight    int
}

// DefaultSettings mirrors the display package defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxDenominator: display.DefaultMaxDenominator,
		GraphWidth:     display.DefaultGraphWidth,
		GraphHeight:    display.DefaultGraphHeight,
	}
}

func (s Settings) options() display.Options {
	return display.Options{MaxDenominator: s.MaxDenominator}
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
