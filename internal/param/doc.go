// Package param holds the vocabulary shared by both phases of the parameter
// system: the closed set of parameter kinds, the metadata enumerations, the Go
// value types for multi-component parameters, the cty codec that moves those
// values in and out of a Property Store, and the error kinds callers test with
// errors.Is.
package param
