package main

// Set at build time with -ldflags "-X main.VERSION=...".
var (
	VERSION   = "0.0.0"
	GITCOMMIT = "unknown"
	BUILDTIME = "unknown"
)
