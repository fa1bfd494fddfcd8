package cliutil

import "time"

// ConfigFileName is the file written by `config init` when no path is given.
const ConfigFileName = "evmfixture.toml"

// EnvPrefix prefixes every environment variable read by the CLI, e.g.
// EVMFIXTURE_NODE_URL.
const EnvPrefix = "EVMFIXTURE"

// CommandTimeout bounds a single CLI invocation. Forking from a slow archive
// node is the longest operation.
const CommandTimeout = 5 * time.Minute
