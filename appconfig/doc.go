// Package appconfig presents configuration values combined from application
// defaults, an optional user config file, and environment variables.
//
// Default values come from an "appdefaults.toml" file located by searching
// upward from the application's root directory (the directory containing the
// executable). Applications can also register computed defaults in code with
// SetDefault or RegisterDefaults.
//
// The user can optionally provide a "userconfig.yml" YAML file to override
// the defaults. The name of this file can be changed in appdefaults.toml via
// the USER_CONFIG key, through the matching environment variable, or at run
// time by calling LoadUserConfig. To override a default named some_value:
//
//	some_value: 123
//
// Finally, environment variables override both. The prefix is set by the
// ENV_CONFIG_PREFIX key in appdefaults.toml (default "APP_"). With a prefix
// of "MYAPP_", a value named some_value is overridden like this:
//
//	export MYAPP_SOME_VALUE=123
//
// Environment overrides are applied as raw strings; the typed getters
// (String, Int64, Bool, ...) re-parse them on access.
//
// Precedence (highest to lowest):
//  1. Environment variables
//  2. User config file
//  3. Defaults file / registered defaults
//
// Quick Start:
//
//	cfg, err := appconfig.Quick()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	retries := cfg.GetDefault("retries", 3)
package appconfig
