// Package hcl provides the HCL implementation of the config.Loader
// interface. It is responsible for file parsing, HCL-to-model translation
// and CTY-to-Go data binding of control arguments.
//
// A definition file looks like:
//
//	animation "sweep" {
//	  archive = "sweep.zip"
//	  lazy    = true
//
//	  control "slider" "s" {
//	    min  = 0
//	    max  = 1
//	    step = 0.25
//	  }
//	  control "checkbox" "c" {
//	    default = true
//	  }
//	}
//
//	sync "pair" {
//	  left         = "sweep"
//	  right        = "other"
//	  left_params  = ["s"]
//	  right_params = ["s"]
//	}
package hcl
