package main

import "github/chapool/testnet-tokens/cmd"

func main() {
	cmd.Execute()
}
