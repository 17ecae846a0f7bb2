package main

import "antmart/cmd"

func main() {
	cmd.Execute()
}
