// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "imgfetch-cli/cmd/imgfetch"
)

func main() {
	cmd.Execute()
}
