package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
)

// ExtensionPrefix prefixes the external commands run by RunExtension.
const ExtensionPrefix = "pts-"

// RunExtension attempts to find and execute an external pts-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The extension inherits the standard streams and receives the effective
// configuration as PTS_ environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", name, err)
		return false, 0
	}

	c := exec.Command(lp, args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Env = os.Environ()
	if cfg != nil {
		c.Env = append(c.Env, cfg.Environ()...)
	}

	if err := c.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
