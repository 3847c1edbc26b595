package main

import "github.com/GriffinCanCode/WebOS/backend/cmd/desktopd/cmd"

func main() {
	cmd.Execute()
}
