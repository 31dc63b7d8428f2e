// Command snapedit edits images from the command line or serves the editing
// engine over HTTP.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
