// admin-cli is a tool for command-line administration of the inventory dashboard.
package main

import (
	"github.com/stockroom/admin-cli/cmd"
)

func main() {
	cmd.Run()
}
