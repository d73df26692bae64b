//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "rstedit"

// Default target to run when none is specified
var Default = Build

// Build compiles the rstedit binary into the working directory
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/rstedit")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install copies the binary to ~/go/bin
func Install() error {
	mg.Deps(Build)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	target := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	fmt.Println("Installing to", target)
	return sh.Copy(target, binary)
}

// Clean removes build output
func Clean() error {
	return sh.Rm(binary)
}
