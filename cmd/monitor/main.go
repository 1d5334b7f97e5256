package main

import "github.com/oshokin/temp-monitor/cmd/monitor/cmd"

func main() {
	cmd.Execute()
}
