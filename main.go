// SPDX-License-Identifier: MPL-2.0

// Command uvextras runs shared and project scripts on top of uv.
package main

import cmd "github.com/uvextras/uvextras/cmd/uvextras"

func main() {
	cmd.Execute()
}
