/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package main

import "github.com/mmuldo/colormatch/cmd"

func main() {
	cmd.Execute()
}
