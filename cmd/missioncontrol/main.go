// Package main provides the entry point for the missioncontrol CLI.
//
// missioncontrol turns loosely written task requests into a normalized
// intake document with its inferred assumptions listed, either over HTTP or
// from the command line.
//
// Usage:
//
//	missioncontrol serve
//	missioncontrol orchestrate "fix the login bug ASAP"
//	missioncontrol orchestrate -f request.txt -f -
//
// See --help for all available options.
package main

// main is the entry point for missioncontrol.
func main() {
	Execute()
}
