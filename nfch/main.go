// Command nfch prepares and cleans nf-core pipeline runs inside a project folder.
package main

import (
	"os"

	"github.com/nfch-tools/nfch/nfch/cmd"
)

func main() {
	cmd.Execute(os.Args[1:])
}
