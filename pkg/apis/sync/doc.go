// Package sync contains the ksync configuration API.
package sync
