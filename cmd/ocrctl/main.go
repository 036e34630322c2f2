// Command ocrctl runs the OCR pipeline locally and inspects stored records.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		os.Exit(1)
	}
}
