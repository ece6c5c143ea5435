// Command lpass is the CLI front-end over the vault package (spec
// §6). It is a thin wrapper: no business logic lives here, only flag
// parsing, confirmation prompts, and calls into vault.Client.
package main

func main() {
	Execute()
}
