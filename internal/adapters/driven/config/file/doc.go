// Package file provides the TOML-backed configuration store.
//
// Settings live in ~/.trawl/config.toml as nested tables ([server], [ui],
// [session]) and are exposed to the core as dotted keys such as
// "server.base_url". Watch reloads the store when the file is edited
// outside the running process.
package file
