// Package typer defines a simple interface for things that report a type
// name, used to route control messages.
package typer

type T interface {
	Type() string
}
