// Command keygen generates a vault encryption key for APP_ENCRYPTION_KEY.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/ledgerlens/ledgerlens/pkg/vault"
)

func main() {
	key, err := vault.NewKey()
	if err != nil {
		color.Red("failed to generate key: %v", err)
		os.Exit(1)
	}
	color.Green("Generated a new 256-bit encryption key.")
	fmt.Println()
	fmt.Printf("APP_ENCRYPTION_KEY=%s\n", key)
	fmt.Println()
	color.Yellow("Store this in your environment or .env file. Losing it makes stored credentials unrecoverable.")
}
