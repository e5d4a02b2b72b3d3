// Package modkit builds API feature modules from shared deps and options
package modkit

import "covtrend/internal/modkit/module"

// Module is what every feature New returns, api.Mount mounts a list of them
type Module = module.Module
