package main

import (
	"os"

	"salesintel/internal/app"
)

func main() {
	os.Exit(app.Execute())
}
