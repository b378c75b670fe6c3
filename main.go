package main

import "storage-init/cmd"

func main() {
	cmd.Execute()
}
