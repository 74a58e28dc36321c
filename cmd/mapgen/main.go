// Command mapgen generates farming-simulator map packages from the
// command line.
package main

import "github.com/MeKo-Tech/mapgen/internal/cliapp"

func main() {
	cliapp.Execute()
}
