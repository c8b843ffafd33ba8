// Package units provides byte size constants.
package units

const (
	Kb = 1024
	Mb = Kb * 1024
	Gb = Mb * 1024
)
