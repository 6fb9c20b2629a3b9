package main

import (
	"math/rand"
	"os"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
