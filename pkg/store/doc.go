// Package store defines the transport boundary between the diff engine and
// the systems that hold records.
//
// A Store lists the records of one kind in one namespace and creates new
// records. Every transport failure is wrapped in a TransportError so callers
// can tell it apart from engine errors.
package store
