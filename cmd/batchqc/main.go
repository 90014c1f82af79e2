// Package main provides the batchqc CLI for pharmaceutical batch quality control.
package main

func main() {
	Execute()
}
