//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the headless demo into bin/demo.
func (Build) Demo() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/demo", "."), withStream()); err != nil {
		return err
	}
	return nil
}
