// Package yamlcfg provides the YAML implementation of the config.Loader
// interface. It accepts the same definitions as the HCL loader:
//
//	animations:
//	  - name: sweep
//	    archive: sweep.zip
//	    controls:
//	      - {kind: slider, name: s, min: 0, max: 1, step: 0.25}
//	      - {kind: checkbox, name: c, default: true}
//	syncs:
//	  - {name: pair, left: sweep, right: other, left_params: [s], right_params: [s]}
package yamlcfg
