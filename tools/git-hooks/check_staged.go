package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
)

// components are the parts of the tree a single commit should not mix. Each
// app/ subpackage counts on its own; the rest are top-level directories.
var components = []string{
	"app/core", "app/nodes", "app/refactor", "app/codegen",
	"app/inspect", "app/config", "app/logging", "app/cli",
	"trace", "util",
}

// maxComponents is how many components one commit may touch.
const maxComponents = 2

func componentOf(path string) string {
	for _, c := range components {
		if strings.HasPrefix(path, c+"/") {
			return c
		}
	}
	if strings.HasPrefix(path, "app/") && strings.Count(path, "/") == 1 {
		return "app"
	}
	return ""
}

func main() {
	cmd := exec.Command("git", "diff", "--cached", "--name-only")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		fmt.Printf("Warning: could not check staged files: %v\n", err)
		os.Exit(0)
	}

	var touched []string
	for _, f := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		c := componentOf(strings.TrimSpace(f))
		if c != "" && !slices.Contains(touched, c) {
			touched = append(touched, c)
		}
	}

	if len(touched) > maxComponents {
		slices.Sort(touched)
		fmt.Println("WARNING: You are modifying multiple components in a single commit:")
		for _, c := range touched {
			fmt.Printf(" - %s\n", c)
		}
		fmt.Println("Atomic commits should ideally affect only one component.")
		fmt.Println("If this is a refactor, please split it or say so in the commit message.")
		os.Exit(1)
	}
}
