// Package hcl provides the HCL implementation of config.Loader. It parses
// .hcl schema files with hclparse, decodes them into the structs of package
// schema with gohcl and translates those into the format-agnostic
// config.Model.
//
// A schema file looks like:
//
//	param "int" "gain" {
//	  label   = "Gain"
//	  min     = 0
//	  max     = 100
//	  default = 50
//	}
//
//	page "main" {
//	  children = ["gain", skip_row, "mode"]
//	}
//
//	page_order = ["main"]
package hcl
