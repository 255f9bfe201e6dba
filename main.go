/*
Copyright © 2026 IRIT Melodi <melodi@irit.fr>
*/
package main

import "github.com/irit-melodi/irit-rst-dt/cmd"

func main() {
	cmd.Execute()
}
