// Package main hosts the vidna CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into workflow runs
// (encode, decode, draw), symbol file inspection, run history queries and
// environment checks. It owns configuration resolution and logger setup so
// subcommands only translate flags into workflow requests.
package main
