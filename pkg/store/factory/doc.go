// Package storefactory builds stores from their declarative configuration.
package storefactory
