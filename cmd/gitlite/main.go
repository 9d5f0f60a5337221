package main

import (
	"log"

	"gitlite/cmd/gitlite/commands"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fatal: ")
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
