package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/oapigen/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
