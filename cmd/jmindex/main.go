// Package main provides the entry point for the jmindex CLI.
//
// jmindex downloads the jmdict-simplified Japanese-English dictionary
// from its GitHub releases and converts it into a compact index keyed by
// hiragana reading.
//
// Usage:
//
//	jmindex build
//	jmindex build v3.6.1
//
// See --help for all available options.
package main

// main is the entry point for jmindex.
func main() {
	Execute()
}
