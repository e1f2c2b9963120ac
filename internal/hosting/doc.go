// Package hosting models the supported source hosting platforms and builds their pull request URLs.
package hosting
