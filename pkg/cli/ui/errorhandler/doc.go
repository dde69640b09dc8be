// Package errorhandler runs cobra commands and turns their failures into
// user facing messages, hints and exit codes.
package errorhandler
