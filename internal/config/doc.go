// Package config provides layered application configuration.
//
// Values are resolved from environment variables (CARTSCOPE_ prefix) first,
// then an optional config.yaml next to the executable, with environment
// values taking precedence. The package also owns the path layout: every
// file the pipeline reads or writes is resolved through the Paths type.
package config
