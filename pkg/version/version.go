// Package version records the release version of the relay.
package version

var V = "v0.2.1"
