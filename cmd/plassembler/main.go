// cmd/plassembler/main.go
package main

import (
	"plassembler/internal/app"
	"plassembler/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
