package main

import "github.com/mselser95/parimutuel-engine/cmd"

func main() {
	cmd.Execute()
}
