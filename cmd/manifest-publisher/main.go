package main

import "github.com/oshokin/update-manifest-publisher/cmd/manifest-publisher/cmd"

func main() {
	cmd.Execute()
}
