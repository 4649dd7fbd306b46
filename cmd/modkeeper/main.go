// Command modkeeper installs, enables and removes mod packages
package main

import (
	"os"

	"github.com/modkeeper/modkeeper/pkg/cli"
)

var version = "0.1.0"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
