// Package config provides configuration structures and utilities for
// Mission Control: server limits, batch concurrency, output and log formats,
// and the optional intake journal.
package config
