// The main package for the harvester executable.
package main

import (
	"github.com/aidocs/harvester/cmd"
)

func main() {
	cmd.Execute()
}
