package main

import "ordergateway/cmd"

func main() {
	cmd.Execute()
}
