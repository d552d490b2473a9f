package main

import "illitworld/cmd/iw/root"

func main() {
	root.Execute()
}
