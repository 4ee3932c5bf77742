// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// blinka is a tool to inspect the platform and drive its pins and SPI bus.
package main

import "github.com/warthog618/go-blinka/cmd/blinka/cmd"

func main() {
	cmd.Execute()
}
