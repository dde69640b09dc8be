// Package parallel runs store fetches concurrently with bounded parallelism.
package parallel
