// Command evalhub browses evaluation benchmarks from a directory of manifests.
package main

import "github.com/okian/evalhub/internal/cli"

func main() {
	cli.Execute()
}
