// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the ndu command line.
//
// # Commands
//
//   - (root): open the chat TUI at the configured home address
//   - open <url>: open the TUI from a deep link such as .../chat?message=Hi
//   - ask <text>: send one message and print the reply
//   - history: list stored session previews
//   - new: start a new session id
//   - config path|show|init: inspect or create the config file
//   - version: print build information
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
package cli
