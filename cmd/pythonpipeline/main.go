package main

import "fmt"

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportErrorAndExit(fmt.Sprintf("command failed: %v", err), 1)
	}
}
