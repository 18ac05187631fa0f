// Package config loads allocviz settings from a TOML file.
//
// A configuration file may contain any subset of these sections:
//
//	[bitmap]        # flat bitmap layout
//	[buddy]         # hierarchical buddy layout
//	[linkedlist]    # region/list layout
//	[palette]       # colors shared by every layout
//	[cache]         # artifact cache backend
//	[server]        # HTTP server settings
//
// Keys left out keep their defaults from [layout.DefaultSet] and [Default].
// A layout section may carry its own [bitmap.palette] table, which replaces
// the shared palette for that layout only.
//
// Example:
//
//	[palette]
//	background = "#ffffff"
//	empty = "#eeeeee"
//	states = ["#00ff00", "#ff0000", "#0000ff"]
//
//	[buddy]
//	layer_zero_coarsest = false
//	margin = [2, 2]
//
//	[linkedlist]
//	sizing_multiplier = 4
//	mem_size = 4096
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Unknown keys are rejected so that typos surface as INVALID_CONFIG errors
// instead of silently falling back to defaults.
package config
