package main

import (
	"testing"
)

func TestRun_MapAndDisplayAreMutuallyExclusive(t *testing.T) {
	mapMode, displayMode = true, true
	defer func() { mapMode, displayMode = false, false }()

	err := run(rootCmd, nil)
	if err == nil {
		t.Fatal("expected an error when -m and -d are both set")
	}
}

func TestRootCmd_FlagsRegistered(t *testing.T) {
	if rootCmd.Flags().Lookup("map") == nil {
		t.Error("expected a --map flag to be registered")
	}
	if rootCmd.Flags().Lookup("display") == nil {
		t.Error("expected a --display flag to be registered")
	}
}
