// Package cli implements the Lightbox admin command-line tool.
//
// It runs one command per invocation:
//
//	admin [-s url] [-g addr] [-t seconds] [-c config.json] <command>
//
// Commands:
//   - register: claim the single admin account (prompts for name and password)
//   - login:    log in and print the session token
//   - whoami:   check a session token read from stdin
//   - health:   query the gRPC health probe
package cli
