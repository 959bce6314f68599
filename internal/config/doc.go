// Package config loads application settings.
//
// Sources, lowest precedence first: built-in defaults, an optional config
// file (aquaflow.yaml, .toml or .json in the working directory or
// $HOME/.config/aquaflow, or an explicit path), a .env file, and AQUAFLOW_*
// environment variables. Nested keys map to variables with "_", so
// redis.addr is AQUAFLOW_REDIS_ADDR.
package config
