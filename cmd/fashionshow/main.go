// Command fashionshow runs the virtual fashion show.
package main

func main() {
	Execute()
}
