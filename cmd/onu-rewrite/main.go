package main

import (
	"os"

	"github.com/unnet/onu-rewrite/pkg/rewrite"
)

func main() {
	os.Exit(rewrite.Main())
}
