package main

import "cjdkgo/cmd"

func main() {
	cmd.Execute()
}
