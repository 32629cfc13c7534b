package main

import "github.com/msiegy/meraki-eol-manager/cmd"

func main() {
	cmd.Execute()
}
