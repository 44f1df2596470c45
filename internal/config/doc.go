// Package config defines the format-agnostic schema model: the parameters a
// declaration phase should define, with their metadata, and the page order.
//
// Concrete loaders (package hcl for .hcl files, package yamlloader for
// .yaml/.yml files) produce a Model; package declare applies it to a
// descriptor set.
package config
