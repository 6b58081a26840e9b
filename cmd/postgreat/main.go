// Command postgreat is the CLI entry point: it loads the target list and
// runs internal/cli's root command.
package main

import "github.com/postgreat/postgreat/internal/cli"

func main() {
	cli.Execute()
}
