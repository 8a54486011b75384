package app

import (
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/hcl"
	"github.com/vk/sweepview/internal/yamlcfg"
)

// coreLoaders is the list of definition formats compiled into the sweepview
// binary.
var coreLoaders = []config.Loader{
	hcl.NewLoader(),
	yamlcfg.NewLoader(),
}
