package main

import "github.com/audiolibrelab/voicepipe/cmd"

func main() {
	cmd.Execute()
}
