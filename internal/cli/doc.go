// Package cli is the paramgrid command tree. It turns flags and PARAMGRID_*
// environment variables into an app.Config, runs one command against the
// App and maps failures to exit codes.
package cli
