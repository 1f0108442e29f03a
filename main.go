package main

import "github.com/xmtp/xmtp-dot-org/cmd"

func main() {
	cmd.Execute()
}
