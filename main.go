package main

import (
	"BassTab/cmd"
	"log"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	// Reaching here means the command completed (or the server started
	// cleanly and has now shut down).
	log.Println("Application command execution finished or server stopped.")
}
