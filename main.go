package main

import "github.com/lepinkainen/bookshop/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
