// SPDX-License-Identifier: MPL-2.0

package main

import cmd "blendpack/cmd/blendpack"

func main() {
	cmd.Execute()
}
