// Command alignctl inspects and adjusts read-along documents from the shell.
package main

func main() {
	Execute()
}
