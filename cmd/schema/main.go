// Command schema prints the JSON schema reflected from the archetype
// authoring structs, for editors and CI checks against the embedded schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"arenamind/server/internal/ai"
)

func main() {
	out := flag.String("out", "", "write the schema to a file instead of stdout")
	flag.Parse()

	raw, err := ai.AuthoringSchema()
	if err != nil {
		log.Fatalf("reflect schema: %v", err)
	}
	if *out == "" {
		fmt.Println(string(raw))
		return
	}
	if err := os.WriteFile(*out, append(raw, '\n'), 0o644); err != nil {
		log.Fatalf("write schema: %v", err)
	}
}
