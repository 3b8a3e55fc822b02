// Command volunteerctl is the operator tool for the volunteer map backend.
package main

import "volunteer_map_backend/cmd/volunteerctl/command"

func main() {
	command.Execute()
}
