package main

import "petcare-backend/cmd"

func main() {
	cmd.Execute()
}
