// SPDX-License-Identifier: MPL-2.0

// Package config bootstraps the uvextras configuration.
//
// The global uvextras.yaml is located through the self-config binding
// ($UVEXTRAS_CONFIG, then the XDG and ~/.config locations, the executable's
// directory and the working directory) unless --file names one. When nothing
// is found the embedded default.yaml is used. The local configuration and the
// local scripts directory, both located through the document's own bindings,
// are then merged in.
//
// The settings section is layered with Viper: built-in defaults, the global
// then local document, UVEXTRAS_* environment variables and finally the CLI
// flags that were set explicitly.
package config
