// Package session holds the state of one interactive comparison: the stores
// being compared, the active results, the parsed diff views and the user's
// line selection.
//
// A Session is created explicitly with New and torn down with Close. Each
// call to Compare replaces the active results and clears the selection. A
// successful ApplyMerge clears the selection too.
package session
